package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lumenlearn/lumen/internal/api/shared"
	"github.com/lumenlearn/lumen/internal/service"
	"github.com/lumenlearn/lumen/internal/store"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100

	defaultListLimit = 20
	maxListLimit     = 100

	defaultSemanticLimit = 10
	maxSemanticLimit     = 50
)

// StudyPathHandler serves study path requests, modules and module search.
type StudyPathHandler struct {
	studyPaths service.StudyPathService
	logger     *slog.Logger
}

// NewStudyPathHandler creates a new StudyPathHandler.
func NewStudyPathHandler(studyPaths service.StudyPathService, logger *slog.Logger) *StudyPathHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyPathHandler{
		studyPaths: studyPaths,
		logger:     logger.With("component", "study_path_handler"),
	}
}

// CreateStudyPath handles POST /api/study-paths. The path is generated
// asynchronously; clients poll the returned request id.
func (h *StudyPathHandler) CreateStudyPath(w http.ResponseWriter, r *http.Request) {
	var req CreateStudyPathRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.studyPaths.RequestStudyPath(r.Context(), req.UserID, req.Topic)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "study path request accepted", "request_id", created.ID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, RequestAcceptedResponse{RequestID: created.ID.String()})
}

// GetRequest handles GET /api/study-path-requests/{id}.
func (h *StudyPathHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	req, err := h.studyPaths.GetRequest(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, requestToResponse(req))
}

// ListStudyPaths handles GET /api/study-paths?userId=&limit=.
func (h *StudyPathHandler) ListStudyPaths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := optionalQueryID(q, "userId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	limit, err := queryLimit(q, defaultListLimit, maxListLimit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	paths, err := h.studyPaths.ListStudyPaths(r.Context(), store.StudyPathFilter{UserID: userID, Limit: limit})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(paths))
}

// GetModules handles GET /api/study-paths/{id} and
// GET /api/study-paths/{id}/modules.
func (h *StudyPathHandler) GetModules(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	path, modules, err := h.studyPaths.GetStudyPath(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, studyPathToResponse(path, modules))
}

// GenerateImages handles POST /api/study-paths/{id}/images.
func (h *StudyPathHandler) GenerateImages(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.studyPaths.RequestImages(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "image generation accepted", "study_path_id", id)
	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]int64{"studyPathId": id})
}

// SearchModules handles GET /api/search/modules?q=&limit=.
func (h *StudyPathHandler) SearchModules(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	docs, err := h.studyPaths.SearchModules(r.Context(), query, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SearchResponse{Query: query, Results: docs})
}

// SemanticSearch handles GET /api/search/semantic?q=&limit=.
func (h *StudyPathHandler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, err := queryLimit(q, defaultSemanticLimit, maxSemanticLimit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	matches, err := h.studyPaths.SemanticSearch(r.Context(), query, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, matchesToResponse(query, matches))
}
