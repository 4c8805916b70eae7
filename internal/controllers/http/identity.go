package http

import (
	"net/http"

	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	identityKey = "identity"
)

// Identify reads the caller forwarded by the auth gateway. Requests without
// a user header are rejected.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing " + HeaderUserID + " header",
			})
			return
		}
		role := c.GetHeader(HeaderUserRole)
		if role == "" {
			role = domain.RoleCustomer
		}
		c.Set(identityKey, domain.Identity{UserID: userID, Role: role})
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).IsAdmin() {
			writeError(c, domain.NotAuthorized("access admin resources"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(domain.Identity)
	return id
}
