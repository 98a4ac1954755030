package services

import (
	"time"

	"github.com/SscSPs/vaultix_backend/internal/utils"
)

type serviceOptions struct {
	now           func() time.Time
	newID         func() string
	accountNumber func(time.Time) string
	otpCode       func() (string, error)
	otpTTL        time.Duration
}

// Option overrides a collaborator of the services. Tests use these to pin
// time, IDs and generated codes.
type Option func(*serviceOptions)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// WithIDGenerator replaces UUID generation for applications and events.
func WithIDGenerator(newID func() string) Option {
	return func(o *serviceOptions) { o.newID = newID }
}

// WithAccountNumberGenerator replaces the time-derived account number scheme.
func WithAccountNumberGenerator(fn func(time.Time) string) Option {
	return func(o *serviceOptions) { o.accountNumber = fn }
}

// WithOTPGenerator replaces the random six-digit code source.
func WithOTPGenerator(fn func() (string, error)) Option {
	return func(o *serviceOptions) { o.otpCode = fn }
}

// WithOTPTTL sets the challenge validity window.
func WithOTPTTL(ttl time.Duration) Option {
	return func(o *serviceOptions) { o.otpTTL = ttl }
}

const defaultOTPTTL = 5 * time.Minute

func resolveOptions(opts []Option) serviceOptions {
	base := newBaseService()
	o := serviceOptions{
		now:           base.Now,
		newID:         base.NewID,
		accountNumber: utils.GenerateAccountNumber,
		otpCode:       func() (string, error) { return utils.GenerateNumericCode(6) },
		otpTTL:        defaultOTPTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.otpTTL <= 0 {
		o.otpTTL = defaultOTPTTL
	}
	return o
}

func (o serviceOptions) base() BaseService {
	return BaseService{Now: o.now, NewID: o.newID}
}
