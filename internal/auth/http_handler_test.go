package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenny/internal/opds"
)

func TestHTTPHandler_Document(t *testing.T) {
	h := NewHTTPHandler("Lenny", "https://lenny.example.org/")

	w := httptest.NewRecorder()
	h.Document(w, httptest.NewRequest(http.MethodGet, "/v1/api/oauth/implicit", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, opds.MediaTypeAuthentication, w.Header().Get("Content-Type"))

	var doc opds.AuthenticationDocument
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	assert.Equal(t, "Lenny", doc.Title)
	require.Len(t, doc.Authentication, 1)
	assert.Equal(t, opds.AuthOAuthImplicit, doc.Authentication[0].Type)
	assert.Equal(t, "https://lenny.example.org/v1/api/oauth/authorize", doc.Authentication[0].Links[0].Href)
}
