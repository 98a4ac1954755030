package services_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/SscSPs/vaultix_backend/internal/core/services"
	"github.com/shopspring/decimal"
)

// testClock is a manually advanced clock shared by a test's services.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequentialIDs yields id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testOptions(clock *testClock) []services.Option {
	return []services.Option{
		services.WithClock(clock.Now),
		services.WithIDGenerator(sequentialIDs()),
	}
}

func validDraft(email string) domain.ApplicationDraft {
	return domain.ApplicationDraft{
		PersonalInfo: domain.PersonalInfo{FirstName: "Asha", LastName: "Rao"},
		ContactInfo:  domain.ContactInfo{Email: email, Phone: "9876543210"},
		AccountInfo: domain.AccountInfo{
			AccountType:    domain.AccountSavings,
			InitialDeposit: decimal.NewFromInt(5000),
		},
		Documents: domain.Documents{IdentityProof: true, AddressProof: true, Photograph: true, Signature: true},
		Password:  "secret1",
	}
}
