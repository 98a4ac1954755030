package utils

import (
	"fmt"
	"time"
)

// AccountNumberPrefix is the bank prefix on every issued account number.
const AccountNumberPrefix = "VLTX"

// GenerateAccountNumber derives an account number from the issue time:
// prefix, four-digit year, then the last eight digits of the unix millisecond clock.
func GenerateAccountNumber(now time.Time) string {
	return fmt.Sprintf("%s%04d%08d", AccountNumberPrefix, now.Year(), now.UnixMilli()%100000000)
}
