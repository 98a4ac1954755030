package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	subjectKey = contextKey("subject")
	roleKey    = contextKey("role")
)

// Principal is the authenticated caller: a customer email or an employee ID plus its role.
type Principal struct {
	Subject string
	Role    string
}

// WithPrincipal stores the caller on a standard context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, subjectKey, p.Subject)
	return context.WithValue(ctx, roleKey, p.Role)
}

// GetPrincipalFromContext retrieves the authenticated caller from the Gin context.
// It returns the principal and a boolean indicating if it was found.
func GetPrincipalFromContext(c *gin.Context) (Principal, bool) {
	ctx := c.Request.Context()
	subject, ok := ctx.Value(subjectKey).(string)
	if !ok || subject == "" {
		return Principal{}, false
	}
	role, _ := ctx.Value(roleKey).(string)
	return Principal{Subject: subject, Role: role}, true
}
