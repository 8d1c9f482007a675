package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/stockroomd/stockroom/internal/core/domain"
)

// Async report protocol: submit returns a job id immediately, status is
// polled, and the finished PDF is fetched from the file endpoint.

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	jobID, err := s.reports.Submit(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, jobResponse{
		JobID:   jobID,
		Status:  "SUBMITTED",
		Message: "report generation started, poll the status endpoint",
	})
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]
	status := s.reports.Status(jobID)

	resp := jobResponse{JobID: jobID, Status: string(status)}
	switch status {
	case domain.JobStatusNotFound:
		resp.Message = "no report job with this id"
		writeJSON(w, http.StatusNotFound, resp)
		return
	case domain.JobStatusInProgress:
		resp.Message = "report is being generated"
	case domain.JobStatusCompleted:
		resp.Message = "report is ready"
		resp.DownloadURL = "/api/reports/file/" + jobID
	case domain.JobStatusFailed:
		resp.Message = "report generation failed"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReportFile(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	data, err := s.reports.Fetch(jobID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "job_not_found", "no report job with this id")
		return
	case errors.Is(err, domain.ErrReportNotReady):
		writeError(w, http.StatusNotFound, "report_not_ready", "report is not ready for download")
		return
	case errors.Is(err, domain.ErrArtifactMissing):
		writeError(w, http.StatusInternalServerError, "artifact_missing", "report file is no longer available")
		return
	default:
		s.logger.Error("fetching report", "job_id", jobID, "error", err)
		writeDomainError(w, err)
		return
	}

	servePDF(w, fmt.Sprintf("report-%s.pdf", jobID), data)
}

// handleReportDownload renders synchronously and streams the result,
// bypassing the job pipeline.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	data, err := s.reports.RenderNow(r.Context())
	if err != nil {
		s.logger.Error("synchronous report render", "error", err)
		writeDomainError(w, err)
		return
	}
	servePDF(w, fmt.Sprintf("report-%s.pdf", time.Now().Format("20060102-150405")), data)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
