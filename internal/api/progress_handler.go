package api

import (
	"log/slog"
	"net/http"

	"github.com/lumenlearn/lumen/internal/api/shared"
	"github.com/lumenlearn/lumen/internal/service"
)

// ProgressHandler records module completions and reports learner progress.
type ProgressHandler struct {
	progress service.ProgressService
	logger   *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progress service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: progress,
		logger:   logger.With("component", "progress_handler"),
	}
}

// CompleteModule handles POST /api/modules/{id}/complete. The first
// completion answers 201, repeats answer 200 with the original time.
func (h *ProgressHandler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	moduleID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req CompleteModuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	completion, created, err := h.progress.CompleteModule(r.Context(), req.UserID, moduleID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, ModuleCompletionResponse{
		UserID:      completion.UserID,
		ModuleID:    completion.ModuleID,
		CompletedAt: completion.CompletedAt,
	})
}

// GetUserProgress handles GET /api/users/{id}/progress.
func (h *ProgressHandler) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	progress, err := h.progress.GetUserProgress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(progress))
}
