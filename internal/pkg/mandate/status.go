package mandate

import (
	"fmt"
	"time"

	"github.com/ManuelReschke/WalletFox/internal/pkg/cache"
)

// Cache key formats for mandate confirmation tracking
const (
	MandateStatusKeyFormat          = "mandate:status:%s"           // Format: mandate:status:<signature>
	MandateStatusTimestampKeyFormat = "mandate:status:timestamp:%s" // Format: mandate:status:timestamp:<signature>
)

// Status constants for mandate confirmation
const (
	STATUS_PENDING   = "pending"   // Transaction submitted, awaiting finalization
	STATUS_CONFIRMED = "confirmed" // Transaction finalized on the cluster
	STATUS_FAILED    = "failed"    // Transaction failed or never finalized
)

// SetStatus sets the confirmation status of a mandate transaction in the cache
func SetStatus(signature string, status string) error {
	key := fmt.Sprintf(MandateStatusKeyFormat, signature)
	SetStatusTimestamp(signature, time.Now())
	return cache.Set(key, status, 24*time.Hour)
}

// SetStatusTimestamp sets the timestamp when the status was last updated
func SetStatusTimestamp(signature string, timestamp time.Time) error {
	cacheKey := fmt.Sprintf(MandateStatusTimestampKeyFormat, signature)
	return cache.Set(cacheKey, timestamp.Format(time.RFC3339), 24*time.Hour)
}

// GetStatus retrieves the confirmation status of a mandate transaction
func GetStatus(signature string) (string, error) {
	key := fmt.Sprintf(MandateStatusKeyFormat, signature)
	return cache.Get(key)
}

// GetStatusTimestamp gets the timestamp when the status was last updated
func GetStatusTimestamp(signature string) (time.Time, error) {
	cacheKey := fmt.Sprintf(MandateStatusTimestampKeyFormat, signature)
	timestampStr, err := cache.Get(cacheKey)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, timestampStr)
}

// IsConfirmed reports whether a mandate transaction has finalized. Unknown
// signatures count as not confirmed.
func IsConfirmed(signature string) bool {
	status, err := GetStatus(signature)
	return err == nil && status == STATUS_CONFIRMED
}
