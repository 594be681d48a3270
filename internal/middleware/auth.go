package middleware

import (
	"net/http"
	"strings"
)

// AuthCookie is the cookie set by a successful login.
const AuthCookie = "authenticated"

// AuthMiddleware checks that the user is logged in (has the 'authenticated=true' cookie).
// With an empty password the service is open and every request passes through.
func AuthMiddleware(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if password == "" {
				next.ServeHTTP(w, r)
				return
			}

			// The login page, its form target and static assets are public.
			if r.URL.Path == "/login" ||
				r.URL.Path == "/auth/login" ||
				r.URL.Path == "/api/health" ||
				strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(AuthCookie)
			if err != nil || cookie.Value != "true" {
				// API and AJAX callers get a 401 instead of a redirect.
				if strings.HasPrefix(r.URL.Path, "/api/") ||
					r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
					r.Header.Get("Content-Type") == "application/json" {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
