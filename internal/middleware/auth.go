// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/pkg/logger"
)

const (
	headerAPIKey = "X-API-Key"
	headerAuth   = "Authorization"
	bearerPrefix = "Bearer "
)

// APIKeyAuth returns a gin middleware that protects admin routes with a
// static API key. Keys are checked from the X-API-Key header first, then
// Authorization: Bearer. With no keys configured, every request is rejected.
func APIKeyAuth(apiKeys []string) gin.HandlerFunc {
	keys := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		if key != "" {
			keys = append(keys, key)
		}
	}

	return func(c *gin.Context) {
		apiKey := extractAPIKey(c)

		if !isValidAPIKey(keys, apiKey) {
			logger.Log.Warn("Unauthorized admin request",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("remoteAddr", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if apiKey := c.GetHeader(headerAPIKey); apiKey != "" {
		return apiKey
	}

	auth := c.GetHeader(headerAuth)
	if strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimPrefix(auth, bearerPrefix)
	}

	return ""
}

// isValidAPIKey compares in constant time against every configured key so
// timing does not reveal which key prefix matched.
func isValidAPIKey(keys []string, candidate string) bool {
	if candidate == "" {
		return false
	}

	valid := false
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			valid = true
		}
	}
	return valid
}
