package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/SscSPs/vaultix_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin passes every staff role check.
const RoleAdmin = "admin"

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" || claims.Role == "" {
			logger.Error("Subject or role missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := WithPrincipal(c.Request.Context(), Principal{Subject: claims.Subject, Role: claims.Role})
		enriched := logger.With(slog.String("subject", claims.Subject), slog.String("role", claims.Role))
		c.Request = c.Request.WithContext(WithLogger(ctx, enriched))

		c.Next()
	}
}

// RequireRole aborts with 403 unless the caller holds one of roles.
// Admin tokens are accepted on every staff group; customer groups never list admin.
func RequireRole(allowAdmin bool, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if slices.Contains(roles, p.Role) || (allowAdmin && p.Role == RoleAdmin) {
			c.Next()
			return
		}
		GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted", slog.Any("allowed", roles))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

// EmployeeLookup resolves the employee behind a staff token.
type EmployeeLookup interface {
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
}

// RequireActiveEmployee checks the token's employee on every request. A deactivated
// employee, or one whose role no longer matches the token, is refused even while
// the token is unexpired. Place it after RequireRole.
func RequireActiveEmployee(employees EmployeeLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context())

		emp, err := employees.GetEmployee(c.Request.Context(), p.Subject)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Token subject is not an employee")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			logger.Error("Failed to look up employee", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !emp.IsActive {
			logger.Warn("Deactivated employee refused")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Employee account is deactivated"})
			return
		}
		if string(emp.Role) != p.Role {
			logger.Warn("Employee role changed since token was issued", slog.String("current_role", string(emp.Role)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role has changed, sign in again"})
			return
		}
		c.Next()
	}
}
