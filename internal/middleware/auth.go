package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/auth"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

const ContextUserClaims = "user_claims"

// Auth validates the bearer token and stores its claims on the context.
func Auth(jwtSvc auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httputil.NewErrorResponse("missing bearer token"))
			return
		}

		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httputil.NewErrorResponse("invalid token"))
			return
		}

		c.Set(ContextUserClaims, claims)
		c.Next()
	}
}

// RequireRole guards an endpoint behind a user role; Auth must run first.
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ContextUserClaims)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httputil.NewErrorResponse("missing bearer token"))
			return
		}

		claims, ok := val.(*auth.TokenClaims)
		if !ok || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				httputil.NewErrorResponse("insufficient permissions"))
			return
		}
		c.Next()
	}
}
