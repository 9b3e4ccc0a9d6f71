package domain

import (
	"math"
	"strings"
	"time"
)

type RatePair struct {
	Base  string
	Quote string
}

// NewRatePair builds a pair from raw codes, trimmed and upper-cased.
func NewRatePair(base, quote string) RatePair {
	return RatePair{Base: NormalizeCode(base), Quote: NormalizeCode(quote)}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (p RatePair) Reversed() RatePair {
	return RatePair{
		Base:  p.Quote,
		Quote: p.Base,
	}
}

func (p RatePair) IsReflexive() bool { return p.Base == p.Quote }

func (p RatePair) String() string { return p.Base + "/" + p.Quote }

// RateRecord is the persisted rate for a pair. At most one live record exists per pair.
type RateRecord struct {
	Pair        RatePair
	Rate        float64
	LastUpdated time.Time
	Source      string
}

// CacheEntry lives in process memory only.
type CacheEntry struct {
	Pair     RatePair
	Rate     float64
	CachedAt time.Time
}

type CacheStats struct {
	Total         int           `json:"total"`
	Valid         int           `json:"valid"`
	Expired       int           `json:"expired"`
	CacheDuration time.Duration `json:"cache_duration"`
}

// IsFresh reports whether a value stamped at t is still inside ttl as of now.
func IsFresh(t, now time.Time, ttl time.Duration) bool {
	return now.Sub(t) < ttl
}

func ValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}
