package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoPassword(t *testing.T) {
	h := AuthMiddleware("")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected open access without a password, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware("secret")(okHandler())

	tests := []struct {
		name     string
		path     string
		cookie   bool
		expected int
	}{
		{"login page is public", "/login", false, http.StatusOK},
		{"static assets are public", "/static/app.js", false, http.StatusOK},
		{"health is public", "/api/health", false, http.StatusOK},
		{"page redirects", "/", false, http.StatusSeeOther},
		{"api is rejected", "/api/analyze", false, http.StatusUnauthorized},
		{"cookie grants access", "/api/analyze", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "true"})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("%s: expected %d, got %d", tt.path, tt.expected, rec.Code)
			}
		})
	}
}
