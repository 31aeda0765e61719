package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/auth"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

// AdminOnly guards configuration and payroll processing endpoints.
// Regular employees carry role "employee" and only reach the
// self-service declaration routes.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			response.HandleError(w, auth.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
