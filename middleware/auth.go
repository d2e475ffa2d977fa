package middleware

import (
	"net/http"

	"go-pharmacy/session"
	"go-pharmacy/utils"

	"go.uber.org/zap"
)

// Auth verifies the session token and attaches the session to the request context.
func Auth(verifier session.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := session.TokenFromRequest(r)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			s, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				utils.RespondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// AdminOnly ensures that the session has admin privileges
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok || !s.IsAdmin() {
			utils.RespondError(w, http.StatusForbidden, "Forbidden: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
