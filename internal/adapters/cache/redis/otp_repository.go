package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix = "vaultix:otp:"

	// challenges outlive their deadline briefly so a late attempt reads as expired, not missing
	otpRetention = 10 * time.Minute
)

type otpRecord struct {
	Code        string `json:"code"`
	IssuedAtMs  int64  `json:"issuedAtMs"`
	ExpiresAtMs int64  `json:"expiresAtMs"`
	Consumed    bool   `json:"consumed"`
}

// consumeScript flips consumed atomically. Returns 1 on success, 0 when no
// challenge with that code exists and -1 when it is used or past its deadline.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return 0 end
local c = cjson.decode(raw)
if c.code ~= ARGV[1] then return 0 end
if c.consumed then return -1 end
if tonumber(ARGV[2]) >= c.expiresAtMs then return -1 end
c.consumed = true
redis.call('SET', KEYS[1], cjson.encode(c), 'KEEPTTL')
return 1
`)

// OTPRepository keeps one challenge per employee in Redis so every instance sees it.
type OTPRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewOTPRepository(client *redis.Client) *OTPRepository {
	return &OTPRepository{client: client, now: time.Now}
}

var _ portsrepo.OTPRepository = (*OTPRepository)(nil)

func otpKey(employeeID string) string {
	return otpKeyPrefix + employeeID
}

func (r *OTPRepository) Save(ctx context.Context, challenge domain.OTPChallenge) error {
	data, err := json.Marshal(otpRecord{
		Code:        challenge.Code,
		IssuedAtMs:  challenge.IssuedAt.UnixMilli(),
		ExpiresAtMs: challenge.ExpiresAt.UnixMilli(),
		Consumed:    challenge.Consumed,
	})
	if err != nil {
		return fmt.Errorf("failed to encode otp challenge: %w", err)
	}
	ttl := challenge.ExpiresAt.Sub(r.now()) + otpRetention
	if ttl <= 0 {
		ttl = otpRetention
	}
	if err := r.client.Set(ctx, otpKey(challenge.EmployeeID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}
	return nil
}

func (r *OTPRepository) Find(ctx context.Context, employeeID string) (*domain.OTPChallenge, error) {
	raw, err := r.client.Get(ctx, otpKey(employeeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("otp challenge for %s: %w", employeeID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read otp challenge: %w", err)
	}
	var rec otpRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode otp challenge: %w", err)
	}
	return &domain.OTPChallenge{
		EmployeeID: employeeID,
		Code:       rec.Code,
		IssuedAt:   time.UnixMilli(rec.IssuedAtMs).UTC(),
		ExpiresAt:  time.UnixMilli(rec.ExpiresAtMs).UTC(),
		Consumed:   rec.Consumed,
	}, nil
}

func (r *OTPRepository) Consume(ctx context.Context, employeeID, code string, now time.Time) error {
	res, err := consumeScript.Run(ctx, r.client, []string{otpKey(employeeID)}, code, now.UnixMilli()).Int()
	if err != nil {
		return fmt.Errorf("failed to consume otp challenge: %w", err)
	}
	switch res {
	case 1:
		return nil
	case -1:
		return fmt.Errorf("otp challenge for %s: %w", employeeID, apperrors.ErrExpired)
	default:
		return fmt.Errorf("otp challenge for %s: %w", employeeID, apperrors.ErrNotFound)
	}
}
