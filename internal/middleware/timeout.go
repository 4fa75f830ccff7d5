package middleware

import (
	"net/http"
	"strings"
	"time"
)

const (
	timeoutJSON = `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`
	timeoutHTML = `<tr class="row-error"><td>The request took too long. Try again.</td></tr>`
)

// Timeout bounds a request's total handling time at the transport. The
// listing and mutation services themselves never impose one. Admin pages and
// HTMX swaps get an HTML body, API callers the JSON envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		asJSON := http.TimeoutHandler(next, timeout, timeoutJSON)
		asHTML := http.TimeoutHandler(next, timeout, timeoutHTML)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wantsJSON(r) {
				asJSON.ServeHTTP(w, r)
				return
			}
			asHTML.ServeHTTP(w, r)
		})
	}
}

func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

func wantsJSON(r *http.Request) bool {
	if isHTMX(r) {
		return false
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}

	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "json") && !strings.Contains(accept, "text/html")
}
