package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/socialgram-api/pkg/helpers"
	"github.com/oksasatya/socialgram-api/pkg/response"
)

// CtxUserIDKey is the context key under which the authenticated user id is
// stored for downstream handlers.
const CtxUserIDKey = "userID"

const bearerPrefix = "Bearer "

// Auth reads the Authorization header, validates the bearer token, and
// injects the user id into the context. The gate resolves fully before any
// handler runs; tokens are stateless so no session lookup happens.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
