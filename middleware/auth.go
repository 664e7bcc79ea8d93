package middleware

import (
	"net/http"

	"geodash/internal/auth"
)

type Middleware struct {
	Tokens *auth.TokenStore
}

func NewMiddleware(tokens *auth.TokenStore) *Middleware {
	return &Middleware{Tokens: tokens}
}

// RequireAuth gates a page behind the stored session: without a token
// the request is redirected to the login page.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.Tokens.IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
