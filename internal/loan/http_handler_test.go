package loan_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenny/internal/httpx"
	"lenny/internal/item"
	"lenny/internal/loan"
	"lenny/internal/opds"
)

func patronRequest(method, target, id string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r = r.WithContext(httpx.ContextWithPatron(r.Context(), patron, "Ada"))
	if id != "" {
		r.SetPathValue("id", id)
	}
	return r
}

func TestHTTPHandler_Borrow(t *testing.T) {
	t.Run("success in direct mode", func(t *testing.T) {
		f := newFixture(t, 2)
		h := loan.NewHTTPHandler(f.svc, nil)

		f.items.EXPECT().GetByID(gomock.Any(), int64(5)).Return(lockedItem, nil).Times(2)
		f.loans.EXPECT().Create(gomock.Any(), int64(5), patron, 2).Return(loan.Loan{ID: 1}, nil)
		f.expectMetadata(12)

		w := httptest.NewRecorder()
		h.Borrow(w, patronRequest(http.MethodPost, "/v1/api/items/5/borrow?auth_mode=direct", "5"))

		require.Equal(t, http.StatusOK, w.Code)
		var pub opds.Publication
		require.NoError(t, json.NewDecoder(w.Body).Decode(&pub))
		require.Len(t, pub.Links, 3)
		assert.Equal(t, "https://lenny.example.org/v1/api/items/5/return?auth_mode=direct", pub.Links[2].Href)
		assert.Equal(t, opds.MediaTypeHTML, pub.Links[2].Type)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t, 2)
		h := loan.NewHTTPHandler(f.svc, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/api/items/5/borrow", nil)
		r.SetPathValue("id", "5")
		h.Borrow(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("conflicts", func(t *testing.T) {
		for _, tc := range []struct {
			err  error
			code string
		}{
			{err: loan.ErrUnavailable, code: "UNAVAILABLE"},
			{err: loan.ErrLimitReached, code: "LOAN_LIMIT"},
		} {
			f := newFixture(t, 2)
			h := loan.NewHTTPHandler(f.svc, nil)

			f.items.EXPECT().GetByID(gomock.Any(), int64(5)).Return(lockedItem, nil)
			f.loans.EXPECT().Create(gomock.Any(), int64(5), patron, 2).Return(loan.Loan{}, tc.err)

			w := httptest.NewRecorder()
			h.Borrow(w, patronRequest(http.MethodPost, "/v1/api/items/5/borrow", "5"))

			assert.Equal(t, http.StatusConflict, w.Code)
			var body httpx.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Error.Code)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t, 2)
		h := loan.NewHTTPHandler(f.svc, nil)
		f.items.EXPECT().GetByID(gomock.Any(), int64(8)).Return(item.Item{}, item.ErrNotFound)

		w := httptest.NewRecorder()
		h.Borrow(w, patronRequest(http.MethodPost, "/v1/api/items/8/borrow", "8"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Return(t *testing.T) {
	f := newFixture(t, 2)
	h := loan.NewHTTPHandler(f.svc, nil)

	f.loans.EXPECT().Return(gomock.Any(), int64(5), patron).Return(loan.Loan{}, loan.ErrNotFound)

	w := httptest.NewRecorder()
	h.Return(w, patronRequest(http.MethodPost, "/v1/api/items/5/return", "5"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_Shelf(t *testing.T) {
	f := newFixture(t, 2)
	h := loan.NewHTTPHandler(f.svc, nil)

	f.loans.EXPECT().ListActive(gomock.Any(), patron).Return(nil, nil)

	w := httptest.NewRecorder()
	h.Shelf(w, patronRequest(http.MethodGet, "/v1/api/shelf", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, opds.MediaTypeFeed, w.Header().Get("Content-Type"))

	var shelf opds.Shelf
	require.NoError(t, json.NewDecoder(w.Body).Decode(&shelf))
	assert.Equal(t, "Bookshelf", shelf.Metadata.Title)
}
