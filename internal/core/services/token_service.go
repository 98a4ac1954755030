package services

import (
	"context"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/utils"
)

// TokenService signs HS256 session tokens for customers and staff.
type TokenService struct {
	BaseService
	secret string
	expiry time.Duration
	issuer string
}

func NewTokenService(secret string, expiry time.Duration, issuer string, opts ...Option) *TokenService {
	return &TokenService{
		BaseService: resolveOptions(opts).base(),
		secret:      secret,
		expiry:      expiry,
		issuer:      issuer,
	}
}

var _ portssvc.TokenSvcFacade = (*TokenService)(nil)

func (s *TokenService) GenerateAccessToken(ctx context.Context, subject, role string) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(subject, role, s.secret, s.expiry, s.issuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign JWT token")
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}
