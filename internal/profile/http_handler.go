package profile

import (
	"net/http"

	"go.uber.org/zap"

	"lenny/internal/httpx"
	"lenny/internal/logger"
	"lenny/internal/opds"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, logger: logger}
}

// Get handles GET /v1/api/profile
// @Summary Patron profile
// @Description Name, email and loan allowance of the authenticated patron
// @Tags profiles
// @Produce json
// @Security Bearer
// @Success 200 {object} opds.Profile
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/api/profile [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := httpx.PatronEmailFrom(r)
	if email == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	p, err := h.service.Get(r.Context(), httpx.PatronNameFrom(r), email)
	if err != nil {
		logger.WithRequestID(h.logger, r).Error("profile", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.Document(w, http.StatusOK, opds.MediaTypeProfile, p)
}
