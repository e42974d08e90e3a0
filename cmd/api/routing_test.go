package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"lenny/internal/config"
	itemmocks "lenny/internal/item/mocks"
	loanmocks "lenny/internal/loan/mocks"
	"lenny/internal/openlibrary"
	"lenny/internal/opds"
	"lenny/internal/testutil"
)

const testSecret = "routing-secret"

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type nilSearcher struct{}

func (nilSearcher) Search(context.Context, string, int, int) (*openlibrary.SearchResponse, error) {
	return &openlibrary.SearchResponse{}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.BaseURL = "https://lenny.example.org"
	cfg.Server.CatalogTitle = "Lenny"
	cfg.Server.RateLimitRPS = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.MaxBodyBytes = 1 << 20
	cfg.Database.Timeout = time.Second
	cfg.Auth.JWTSecret = testSecret
	cfg.Loan.Limit = 5
	return cfg
}

func newTestRouter(t *testing.T, db pinger) (http.Handler, *itemmocks.MockRepository, *loanmocks.MockRepository) {
	ctrl := gomock.NewController(t)
	items := itemmocks.NewMockRepository(ctrl)
	loans := loanmocks.NewMockRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return routes(ctx, testConfig(), db, items, loans, nilSearcher{}, zap.NewNop()), items, loans
}

func serve(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.NewRequestWithAuth(method, target, token))
	return w
}

func TestRouting_Probes(t *testing.T) {
	h, _, _ := newTestRouter(t, fakePinger{})
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/readyz", "").Code)

	down, _, _ := newTestRouter(t, fakePinger{err: errors.New("down")})
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, http.MethodGet, "/readyz", "").Code)
}

func TestRouting_PublicRoutes(t *testing.T) {
	h, items, _ := newTestRouter(t, fakePinger{})

	items.EXPECT().List(gomock.Any(), 20, 0).Return(nil, 0, nil)
	w := serve(h, http.MethodGet, "/v1/api/opds", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, opds.MediaTypeFeed, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = serve(h, http.MethodGet, "/v1/api/oauth/implicit", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, opds.MediaTypeAuthentication, w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/v1/api/opds/abc", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodPost, "/v1/api/opds", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/v1/catalog/search", "").Code)
}

func TestRouting_ProtectedRoutes(t *testing.T) {
	h, _, loans := newTestRouter(t, fakePinger{})

	for _, rt := range []struct{ method, target string }{
		{http.MethodPost, "/v1/api/items/1/borrow"},
		{http.MethodPost, "/v1/api/items/1/return"},
		{http.MethodGet, "/v1/api/shelf"},
		{http.MethodGet, "/v1/api/profile"},
	} {
		assert.Equal(t, http.StatusUnauthorized, serve(h, rt.method, rt.target, "").Code, rt.target)
	}

	expired := testutil.ExpiredPatronToken(t, testSecret, "ada@example.org")
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/v1/api/shelf", expired).Code)

	token := testutil.PatronToken(t, testSecret, "ada@example.org", "Ada")

	loans.EXPECT().CountActive(gomock.Any(), "ada@example.org").Return(2, nil)
	w := serve(h, http.MethodGet, "/v1/api/profile", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":3`)
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/lenny", redactDSN("postgres://user:pw@db:5432/lenny"))
	assert.Equal(t, "not a dsn", redactDSN("not a dsn"))
}
