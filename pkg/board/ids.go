package board

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dyluth/corkboard/pkg/kv"
)

const idDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// EncodeID writes n in base 36, most significant digit first, without
// leading zeros. Zero encodes as "0".
func EncodeID(n uint64) string {
	return strconv.FormatUint(n, 36)
}

// DecodeID is the inverse of EncodeID. It accepts only the canonical form:
// lowercase digits and no leading zeros.
func DecodeID(token string) (uint64, error) {
	if token == "" {
		return 0, fmt.Errorf("empty id")
	}
	if len(token) > 1 && token[0] == '0' {
		return 0, fmt.Errorf("id %q has a leading zero", token)
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z') {
			return 0, fmt.Errorf("id %q contains %q, want one of %s", token, c, idDigits)
		}
	}
	n, err := strconv.ParseUint(token, 36, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", token, err)
	}
	return n, nil
}

// IDGenerator mints ids from counters held in a kv.Store.
// It keeps no state of its own; uniqueness rests entirely on the store's
// atomic increment.
type IDGenerator struct {
	kv   kv.Store
	keys Keys
}

// NewIDGenerator returns a generator whose counters live in store under keys.
func NewIDGenerator(store kv.Store, keys Keys) *IDGenerator {
	return &IDGenerator{kv: store, keys: keys}
}

// NextID increments the named counter and returns its new value as a token.
// Store failures are returned as *StoreUnavailableError without retrying.
func (g *IDGenerator) NextID(ctx context.Context, counter string) (string, error) {
	key := g.keys.Counter(counter)

	n, err := g.kv.Incr(ctx, key)
	if err != nil {
		return "", storeError("INCR", key, "counter", counter, err)
	}
	if n < 0 {
		return "", &CorruptRecordError{
			Kind:   "counter",
			ID:     counter,
			Key:    key,
			Reason: fmt.Sprintf("negative value %d", n),
		}
	}
	return EncodeID(uint64(n)), nil
}
