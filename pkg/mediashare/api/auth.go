package api

import (
	"net/http"

	"github.com/go-chi/jwtauth"
)

// NewTokenAuth builds the session token verifier used by the upload routes.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// Authenticator rejects requests that carry no valid session token with a
// generic 401 body. It must run after jwtauth.Verifier, which parses the
// token from the Authorization header or the jwt cookie into the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userID extracts the session subject, or "" when absent.
func userID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
