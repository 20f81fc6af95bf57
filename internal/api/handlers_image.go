package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/fern/internal/parser"
)

func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeAppError(w, r, err, "Error analyzing image")
		return
	}
	defer up.close()

	if s.svc.Vision == nil {
		jsonError(w, "Image analysis is not configured", http.StatusInternalServerError)
		return
	}
	if mime := parser.DetectMIME(up.data); !strings.HasPrefix(mime, "image/") {
		jsonError(w, "File must be an image", http.StatusBadRequest)
		return
	}

	analysis, err := s.svc.Vision.Analyze(r.Context(), up.data)
	if err != nil {
		s.log.Error("image analysis failed", "filename", up.filename, "error", err)
		jsonError(w, "Error analyzing image", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
