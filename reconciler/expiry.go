package reconciler

import (
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
)

const (
	ExpiryFieldTitle  = "ID Expiry"
	DefaultExpiryDays = 30
)

// ExpiryPolicy decides whether an ID expiry date falls inside the alert window.
type ExpiryPolicy struct {
	Window time.Duration
	// RequireFuture excludes dates that have already passed.
	RequireFuture bool
}

var (
	// DefaultExpiryPolicy also flags expiry dates that are already in the past.
	DefaultExpiryPolicy = ExpiryPolicy{Window: DefaultExpiryDays * 24 * time.Hour}
)

func NewExpiryPolicy(windowDays int, requireFuture bool) ExpiryPolicy {
	return ExpiryPolicy{Window: time.Duration(windowDays) * 24 * time.Hour, RequireFuture: requireFuture}
}

// Strict keeps the window but stops counting dates that have already passed.
func (p ExpiryPolicy) Strict() ExpiryPolicy {
	p.RequireFuture = true
	return p
}

// ParseExpiryDate reads a calendar date as midnight UTC. Full timestamps are accepted as well.
func ParseExpiryDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, true
	}
	if date, err := models.ParseHazyUtcTime(value); err == nil {
		return date, true
	}
	return time.Time{}, false
}

// IsExpiringSoon never errors, an empty or unparseable value is not expiring.
func (p ExpiryPolicy) IsExpiringSoon(value string, now time.Time) bool {
	expiry, ok := ParseExpiryDate(value)
	if !ok {
		return false
	}
	if p.RequireFuture && !expiry.After(now) {
		return false
	}
	return !expiry.After(now.Add(p.Window))
}
