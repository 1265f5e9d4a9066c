// Package cache stores serialized comparison results keyed by request.
package cache

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rgehrsitz/itax/internal/domain"
)

// Store is a string key/value cache with per-entry expiry.
type Store interface {
	// Get returns the cached value. A miss is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Key derives a cache key from the rule table fingerprint and the request.
// Requests that serialize identically share a key.
func Key(fingerprint string, req domain.TaxRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	sum := sha256.Sum256(data)
	return "itax:" + fingerprint + ":" + hex.EncodeToString(sum[:]), nil
}
