package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireRole rejects callers whose token role is not one of allowedRoles.
// It must run after AuthMiddleware.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetRole(r.Context())
			if _, ok := allowed[role]; !ok {
				subject, _ := GetSubject(r.Context())
				logger.Warn("Seed caller lacks an allowed role",
					zap.String("subject", subject),
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
