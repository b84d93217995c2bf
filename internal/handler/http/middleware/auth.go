package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/maintcore/cmms-backend-go/internal/domain/auth"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests that do not carry a verified access
// token. Tokens with any other type claim do not pass.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if tokenType, ok := claims["type"].(string); !ok || tokenType != auth.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
