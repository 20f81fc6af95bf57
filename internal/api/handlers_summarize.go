package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/fern/internal/apperr"
	"github.com/dgallion1/fern/internal/chunker"
	"github.com/dgallion1/fern/internal/parser"
)

type summarizeRequest struct {
	Text string `json:"text"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.svc.Summarizer.Summarize(r.Context(), req.Text, "")
	if err != nil {
		s.writeAppError(w, r, err, "Error generating summary")
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: res.Summary})
}

func (s *Server) handleSummarizePDF(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeAppError(w, r, err, "Error processing PDF")
		return
	}
	defer up.close()

	if !parser.IsPDF(up.filename) {
		jsonError(w, "File must be a PDF", http.StatusBadRequest)
		return
	}

	p := &parser.PDFParser{FallbackPdftotext: s.cfg.PDFFallbackPdftotext}
	doc, err := p.Parse(bytes.NewReader(up.data), up.filename)
	if err != nil {
		s.writeAppError(w, r, apperr.Extraction(fmt.Sprintf("Error reading PDF: %v", err), err), "")
		return
	}

	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		jsonError(w, "Could not extract text from PDF", http.StatusBadRequest)
		return
	}

	s.log.Info("pdf extracted", "filename", up.filename, "pages", doc.Pages(), "chars", utf8.RuneCountInString(text))

	res, err := s.svc.Summarizer.Summarize(r.Context(), text, up.filename)
	if err != nil {
		s.writeAppError(w, r, err, "Error processing PDF")
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: res.Summary})
}

type chunksRequest struct {
	Text      string `json:"text"`
	ChunkSize int    `json:"chunk_size"`
}

type chunkPreview struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Chars     int    `json:"chars"`
	EstTokens int    `json:"est_tokens"`
}

// handleChunks shows how a text would be split without calling the model.
func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req chunksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "Text cannot be empty", http.StatusBadRequest)
		return
	}
	size := req.ChunkSize
	if size <= 0 {
		size = s.svc.Summarizer.ChunkSize()
	}

	chunks := chunker.Split(req.Text, size)
	out := make([]chunkPreview, 0, len(chunks))
	for i, c := range chunks {
		out = append(out, chunkPreview{
			Index:     i,
			Text:      c,
			Chars:     utf8.RuneCountInString(c),
			EstTokens: chunker.EstimateTokens(c),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chunk_size": size,
		"chunks":     out,
	})
}
