// Package middleware provides middleware for handling HTTP requests.
package middleware

import (
	"net/http"
	"strings"

	"supportmatch-go/internal/service"
	"supportmatch-go/pkg/database"
	"supportmatch-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a gin middleware for JWT authentication. It extracts
// the bearer token, verifies it (rejecting blacklisted tokens from logout),
// and stores the full Agent object in the gin context.
func AuthMiddleware(jwtManager *token.JWTManager, agentService service.AgentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// Tokens invalidated by logout sit in the Redis blacklist until they
		// would have expired anyway.
		if blacklisted, err := database.RDB.Exists(c.Request.Context(), "blacklist:"+tokenString).Result(); err == nil && blacklisted > 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
			return
		}

		agent, err := agentService.GetProfile(claims.Username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "agent not found"})
			return
		}

		c.Set("agent", agent)
		c.Set("claims", claims)

		c.Next()
	}
}
