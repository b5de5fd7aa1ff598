package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

// Context keys set for authenticated operators.
const (
	OperatorIDKey    = "operator_id"
	OperatorEmailKey = "operator_email"
)

type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

// Handle guards operator routes.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed bearer token")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(strings.TrimSpace(token))
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, utils.ErrInvalidToken.Error(), "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(OperatorIDKey, claims.UserID)
		c.Set(OperatorEmailKey, claims.Email)
		c.Next()
	}
}

// OperatorEmail returns the email of the authenticated operator, if any.
func OperatorEmail(c *gin.Context) string {
	return c.GetString(OperatorEmailKey)
}
