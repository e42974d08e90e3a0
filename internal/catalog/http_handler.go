package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lenny/internal/httpx"
	"lenny/internal/logger"
	"lenny/internal/item"
	"lenny/internal/opds"
)

const defaultLimit = 20

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{svc: svc, logger: logger}
}

// AuthModeFromRequest reports whether the client asked for the direct borrow
// flow (?auth_mode=direct).
func AuthModeFromRequest(r *http.Request) bool {
	return r.URL.Query().Get(AuthModeParam) == AuthModeDirect
}

// Feed handles GET /v1/api/opds
// @Summary Catalog feed
// @Description Page the local catalog, or search Open Library and mark the items held locally
// @Tags opds
// @Produce json
// @Param q query string false "Search query"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Param auth_mode query string false "direct for the OTP borrow flow"
// @Success 200 {object} opds.Feed
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/api/opds [get]
func (h *HTTPHandler) Feed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := FeedQuery{
		Query:          query.Get("q"),
		Limit:          defaultLimit,
		AuthModeDirect: AuthModeFromRequest(r),
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a number", nil)
			return
		}
		q.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "offset must be a number", nil)
			return
		}
		q.Offset = offset
	}
	if details := httpx.ValidateStruct(q); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feed query", details)
		return
	}

	feed, err := h.svc.Feed(r.Context(), q)
	if err != nil {
		logger.WithRequestID(h.logger, r).Error("build feed", zap.Error(err), zap.String("q", q.Query))
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Catalog is unavailable", nil)
		return
	}
	httpx.Document(w, http.StatusOK, opds.MediaTypeFeed, feed)
}

// Publication handles GET /v1/api/opds/{id}
// @Summary Single publication
// @Tags opds
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} opds.Publication
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/api/opds/{id} [get]
func (h *HTTPHandler) Publication(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Record(r.Context(), id, AuthModeFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.Document(w, http.StatusOK, opds.MediaTypePublication, rec.Publication())
}

// Read handles GET /v1/api/items/{id}/read
func (h *HTTPHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r)
	if !ok {
		return
	}

	target, err := h.svc.ReaderURL(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	case errors.Is(err, ErrNoMetadata):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No metadata for item", nil)
	case errors.Is(err, ErrEncrypted):
		httpx.JSONError(w, r, http.StatusForbidden, "LOAN_REQUIRED", "Borrow this item to read it", nil)
	default:
		logger.WithRequestID(h.logger, r).Error("catalog request failed", zap.Error(err), zap.String("path", r.URL.Path))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// PathID parses the {id} path value, writing a 400 when it is not a positive
// integer.
func PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid item id", nil)
		return 0, false
	}
	return id, true
}
