package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/fern/internal/parser"
	"github.com/dgallion1/fern/internal/pipeline"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	if s.svc.Jobs == nil {
		jsonError(w, "async jobs unavailable", http.StatusServiceUnavailable)
		return
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeAppError(w, r, err, "Error reading upload")
		return
	}
	defer up.close()

	if !parser.IsSupportedExtension(up.filename) {
		jsonError(w, "Unsupported file type", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(up.filename, r.FormValue("label"), up.data)
	if err := s.svc.Jobs.Submit(job); err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			jsonError(w, "Job queue is full, try again later", http.StatusServiceUnavailable)
			return
		}
		s.writeAppError(w, r, err, "Error queueing job")
		return
	}

	s.log.Info("job queued", "job_id", job.ID, "filename", job.Filename, "bytes", len(up.data))
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if s.svc.Jobs == nil {
		jsonError(w, "async jobs unavailable", http.StatusServiceUnavailable)
		return
	}
	job := s.svc.Jobs.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "Job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
