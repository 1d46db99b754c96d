package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pulsecrm/reporting/pkg/auth"
	"github.com/pulsecrm/reporting/pkg/constants"
)

// RequireAuth validates the Bearer token minted by the main application
// and stores the tenant-scoped session on the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "No authorization token provided")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(constants.ContextKeyUser, claims.User)
		c.Next()
	}
}

// RequireAdmin checks the admin profile on top of RequireAuth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userInterface, exists := c.Get(constants.ContextKeyUser)
		if !exists {
			abortUnauthorized(c, "User not authenticated")
			return
		}

		user := userInterface.(auth.UserSession)
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				constants.ResponseError: "Forbidden",
				constants.FieldMessage:  "Only administrators can access this resource",
				"code":                  "FORBIDDEN",
				"data":                  nil,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		constants.ResponseError: "Unauthorized",
		constants.FieldMessage:  message,
		"code":                  "UNAUTHORIZED",
		"data":                  nil,
	})
	c.Abort()
}
