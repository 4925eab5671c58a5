package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SecretHeader is the request header carrying the admin shared secret.
const SecretHeader = "X-Admin-Secret"

// SecretMatches compares a supplied credential against the configured
// secret in constant time. An empty supplied value never matches.
func SecretMatches(secret, supplied string) bool {
	if supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(supplied)) == 1
}

// RequireSecret gates a route behind the admin shared secret. Fails closed:
// a missing, malformed, or mismatched header aborts with 401.
func RequireSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SecretMatches(secret, c.GetHeader(SecretHeader)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
