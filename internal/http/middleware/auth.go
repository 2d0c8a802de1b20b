package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/token"
)

const subjectKey = "auth.subject"

// Auth guards routes behind a bearer token.
type Auth struct {
	Tokens *token.Issuer
}

// NewAuth creates the middleware.
func NewAuth(tokens *token.Issuer) *Auth {
	return &Auth{Tokens: tokens}
}

// ValidateJWT verifies the Authorization bearer token and stores its subject
// in the request context.
func (a *Auth) ValidateJWT(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing bearer token."})
		return
	}

	subject, err := a.Tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid or expired token."})
		return
	}

	c.Set(subjectKey, subject)
	c.Next()
}

// GetSubject returns the verified token subject set by ValidateJWT.
func GetSubject(c *gin.Context) (string, bool) {
	value, ok := c.Get(subjectKey)
	if !ok {
		return "", false
	}
	subject, ok := value.(string)
	return subject, ok
}
