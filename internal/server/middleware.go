package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/trackwise/billing/internal/identity"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// IdentityRequired extracts the authenticated caller from the trusted
// gateway headers. Authentication happens upstream; a request without
// the headers never passed the gateway.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := strings.TrimSpace(c.GetHeader(headerUserID))
		if rawID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		role := identity.RoleUser
		if strings.EqualFold(strings.TrimSpace(c.GetHeader(headerUserRole)), string(identity.RoleAdmin)) {
			role = identity.RoleAdmin
		}

		ctx := identity.WithIdentity(c.Request.Context(), identity.Identity{
			UserID: snowflake.ID(id),
			Role:   role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminRequired gates admin-only routes. Runs after IdentityRequired.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity.FromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !caller.IsAdmin() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}
