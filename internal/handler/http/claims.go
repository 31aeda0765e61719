package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

// requireClaim extracts a string claim from the verified token. On
// failure it writes the 401 itself so handlers can just return.
func requireClaim(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return "", false
	}

	value, ok := claims[key].(string)
	if !ok || value == "" {
		response.Unauthorized(w, key+" claim is missing or invalid")
		return "", false
	}
	return value, true
}
