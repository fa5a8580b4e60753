package httphandler

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if r.ContentLength == 0 || r.Body == http.NoBody ||
			(r.ContentLength < 0 && ct == "") {
			next.ServeHTTP(w, r)
			return
		}

		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// Guarded consults guard on every request and redirects with 303 See Other
// when the guard does not allow it.
func Guarded(guard port.RouteGuard, next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		d := guard.Decide()
		if d.Allow {
			next.ServeHTTP(w, r)
			return
		}

		slog.Debug("navigation redirected",
			"op", "Guarded", "path", r.URL.Path, "to", d.RedirectTo)
		http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
	}
	return http.HandlerFunc(hf)
}
