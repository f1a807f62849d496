package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = contextKey("userID")

// AuthMiddleware validates the Bearer token on administrative routes and
// stores the authenticated subject in the Gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rejected invalid bearer token", slog.String("error", errString(err)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has no subject"})
			return
		}

		c.Set(string(userIDKey), subject)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the authenticated subject set by AuthMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok
}

func errString(err error) string {
	if err == nil {
		return "token invalid"
	}
	return err.Error()
}
