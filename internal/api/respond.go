package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/fern/internal/apperr"
)

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError maps err onto a status code through its apperr kind.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := apperr.HTTPStatus(apperr.KindOf(err))
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.log.Warn("request rejected", "path", r.URL.Path, "error", err)
	}
	jsonError(w, apperr.MessageOf(err, fallback), code)
}

// upload is a multipart file read fully into memory.
type upload struct {
	filename string
	data     []byte
	form     *multipart.Form
}

func (s *Server) sizeMessage() string {
	return fmt.Sprintf("File size must be less than %dMB", s.cfg.MaxUploadBytes>>20)
}

// readUpload reads the "file" part of a multipart request. Size violations
// and missing files come back as validation errors.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, apperr.Validation(s.sizeMessage())
		}
		return nil, apperr.Validation("Invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, apperr.Validation("No file uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, apperr.Internal("Failed to read file", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		r.MultipartForm.RemoveAll()
		return nil, apperr.Validation(s.sizeMessage())
	}

	return &upload{
		filename: sanitizeFilename(header.Filename),
		data:     data,
		form:     r.MultipartForm,
	}, nil
}

func (u *upload) close() {
	if u.form != nil {
		u.form.RemoveAll()
	}
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
