package loan

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lenny/internal/catalog"
	"lenny/internal/httpx"
	"lenny/internal/logger"
	"lenny/internal/item"
	"lenny/internal/opds"
)

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

// Borrow handles POST /v1/api/items/{id}/borrow
// @Summary Borrow an item
// @Description Lend an encrypted item to the authenticated patron
// @Tags loans
// @Produce json
// @Security Bearer
// @Param id path int true "Item ID"
// @Param auth_mode query string false "direct for the OTP flow"
// @Success 200 {object} opds.Publication
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/api/items/{id}/borrow [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	email := httpx.PatronEmailFrom(r)
	if email == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id, ok := catalog.PathID(w, r)
	if !ok {
		return
	}

	direct := catalog.AuthModeFromRequest(r)
	rec, err := h.svc.Borrow(r.Context(), email, id, direct)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.Document(w, http.StatusOK, opds.MediaTypePublication, rec.WithAuthModeDirect(direct).BorrowedPublication())
}

// Return handles POST /v1/api/items/{id}/return
// @Summary Return an item
// @Tags loans
// @Produce json
// @Security Bearer
// @Param id path int true "Item ID"
// @Success 200 {object} opds.Publication
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/api/items/{id}/return [post]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	email := httpx.PatronEmailFrom(r)
	if email == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id, ok := catalog.PathID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Return(r.Context(), email, id, catalog.AuthModeFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.Document(w, http.StatusOK, opds.MediaTypePublication, rec.Publication())
}

// Shelf handles GET /v1/api/shelf
// @Summary Patron bookshelf
// @Tags loans
// @Produce json
// @Security Bearer
// @Success 200 {object} opds.Shelf
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/api/shelf [get]
func (h *HTTPHandler) Shelf(w http.ResponseWriter, r *http.Request) {
	email := httpx.PatronEmailFrom(r)
	if email == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	shelf, err := h.svc.Shelf(r.Context(), email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.Document(w, http.StatusOK, opds.MediaTypeFeed, shelf)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No active loan for this item", nil)
	case errors.Is(err, ErrUnavailable):
		httpx.JSONError(w, r, http.StatusConflict, "UNAVAILABLE", "All copies are on loan", nil)
	case errors.Is(err, ErrLimitReached):
		httpx.JSONError(w, r, http.StatusConflict, "LOAN_LIMIT", "Loan limit reached", nil)
	case errors.Is(err, ErrNotLendable):
		httpx.JSONError(w, r, http.StatusConflict, "NOT_LENDABLE", "Item is open access", nil)
	case errors.Is(err, catalog.ErrNoMetadata):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No metadata for item", nil)
	default:
		logger.WithRequestID(h.logger, r).Error("loan request failed", zap.Error(err), zap.String("path", r.URL.Path))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
