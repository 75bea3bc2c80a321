package api

import (
	"log/slog"
	"net/http"

	"github.com/lumenlearn/lumen/internal/api/shared"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/service"
	"github.com/lumenlearn/lumen/internal/store"
)

// TTSHandler serves text-to-speech jobs.
type TTSHandler struct {
	tts    service.TTSService
	logger *slog.Logger
}

// NewTTSHandler creates a new TTSHandler.
func NewTTSHandler(tts service.TTSService, logger *slog.Logger) *TTSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TTSHandler{
		tts:    tts,
		logger: logger.With("component", "tts_handler"),
	}
}

// CreateJob handles POST /api/tts.
func (h *TTSHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateTTSRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.tts.RequestSpeech(r.Context(), req.Text, req.UserID, req.ModuleID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "tts job accepted", "job_id", job.ID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, JobAcceptedResponse{JobID: job.ID.String()})
}

// GetJob handles GET /api/tts/{id}.
func (h *TTSHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	job, err := h.tts.GetJob(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// ListJobs handles GET /api/tts?userId=&moduleId=&status=.
func (h *TTSHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, err := optionalQueryID(q, "userId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	moduleID, err := optionalQueryID(q, "moduleId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	jobs, err := h.tts.ListJobs(r.Context(), store.TTSJobFilter{
		UserID:   userID,
		ModuleID: moduleID,
		Status:   domain.TTSJobStatus(q.Get("status")),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]TTSJobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, jobToResponse(&jobs[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
