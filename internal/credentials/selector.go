// Package credentials rotates through an ordered list of OMDb API keys.
package credentials

import (
	"context"
	"log/slog"
	"strings"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

// Selector holds the primary key followed by its fallbacks.
type Selector struct {
	keys []string
}

// NewSelector builds a selector from a primary key and fallbacks.
// Blank and duplicate keys are dropped; order is preserved.
func NewSelector(primary string, fallbacks ...string) *Selector {
	seen := make(map[string]bool, len(fallbacks)+1)
	keys := make([]string, 0, len(fallbacks)+1)
	for _, key := range append([]string{primary}, fallbacks...) {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return &Selector{keys: keys}
}

// Keys returns a copy of the ordered key list.
func (s *Selector) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of configured keys.
func (s *Selector) Len() int {
	return len(s.keys)
}

// Do calls fn with each key in order until one succeeds.
//
// A credential-scoped rejection (invalid key, exhausted quota) always moves
// on to the next key. Any other failure of the primary key is returned as is.
// On a fallback key, transport, HTTP and generic rejections are logged and
// skipped; a not-found answer is returned because the key itself worked.
// When every key fails the result is an AllSourcesExhaustedError.
func Do[T any](ctx context.Context, s *Selector, fn func(ctx context.Context, apiKey string) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := 0
	for i, key := range s.keys {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attempts++
		result, err := fn(ctx, key)
		if err == nil {
			if i > 0 {
				slog.Info("Request succeeded with fallback API key", "attempt", attempts)
			}
			return result, nil
		}
		lastErr = err

		switch {
		case marqueeerrors.IsCredentialScoped(err):
			slog.Debug("API key rejected, trying next", "attempt", attempts, "error", err)
		case i == 0:
			return zero, err
		case marqueeerrors.IsNotFound(err):
			return zero, err
		default:
			slog.Warn("Fallback API key failed", "attempt", attempts, "error", err)
		}
	}

	return zero, marqueeerrors.NewAllSourcesExhaustedError(attempts, lastErr)
}
