package httphandler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

type staticGuard domain.Decision

func (g staticGuard) Decide() domain.Decision {
	return domain.Decision(g)
}

var (
	allowAll   = staticGuard{Allow: true}
	toLogin    = staticGuard{RedirectTo: "/login"}
	toLanding  = staticGuard{RedirectTo: "/"}
	okResponse = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
)

func TestAllowJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"EmptyBody", "", "", http.StatusOK},
		{"JSON", "{}", "application/json", http.StatusOK},
		{"JSONWithCharset", "{}", "application/json; charset=utf-8", http.StatusOK},
		{"PlainText", "{}", "text/plain", http.StatusUnsupportedMediaType},
		{"NoContentType", "{}", "", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			httphandler.AllowJSON(okResponse).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAllowJSONBodyless(t *testing.T) {
	t.Run("ChunkedWithoutContentType", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/cart/checkout", strings.NewReader(""))
		req.ContentLength = -1
		rec := httptest.NewRecorder()

		httphandler.AllowJSON(okResponse).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NoBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/cart/checkout", http.NoBody)
		req.ContentLength = -1
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()

		httphandler.AllowJSON(okResponse).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ChunkedPlainText", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/cart/checkout", strings.NewReader("{}"))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()

		httphandler.AllowJSON(okResponse).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestGuarded(t *testing.T) {
	t.Run("Allow", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)

		httphandler.Guarded(allowAll, okResponse).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Redirect", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)

		httphandler.Guarded(toLogin, okResponse).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}
