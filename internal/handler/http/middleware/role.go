package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/maintcore/cmms-backend-go/internal/domain/auth"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/response"
)

// ClaimsFromRequest extracts the identity claims handlers care about.
func ClaimsFromRequest(r *http.Request) (userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", auth.ErrInvalidToken
	}

	roleClaim, ok := claims["role"].(string)
	if !ok || roleClaim == "" {
		return "", "", auth.ErrInvalidToken
	}

	return userID, user.ParseRole(roleClaim), nil
}

// AdminOnly allows only admin users through.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, role, err := ClaimsFromRequest(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SupervisorOrAdmin allows supervisors and admins through. Routes behind it
// still scope supervisor access to managed departments in the handler.
func SupervisorOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, role, err := ClaimsFromRequest(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if role != user.RoleAdmin && role != user.RoleSupervisor {
			response.HandleError(w, user.ErrSupervisorRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
