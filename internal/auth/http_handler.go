package auth

import (
	"net/http"

	"lenny/internal/httpx"
	"lenny/internal/opds"
)

// HTTPHandler serves the OPDS authentication document that tells reading
// apps how to sign patrons in.
type HTTPHandler struct {
	title   string
	baseURL string
}

func NewHTTPHandler(title, baseURL string) *HTTPHandler {
	return &HTTPHandler{title: title, baseURL: baseURL}
}

// Document handles GET /v1/api/oauth/implicit
// @Summary OPDS authentication document
// @Tags auth
// @Produce json
// @Success 200 {object} opds.AuthenticationDocument
// @Router /v1/api/oauth/implicit [get]
func (h *HTTPHandler) Document(w http.ResponseWriter, r *http.Request) {
	httpx.Document(w, http.StatusOK, opds.MediaTypeAuthentication, opds.NewAuthenticationDocument(h.title, h.baseURL))
}
