// Package daily derives the shared seed for the daily challenge: every player
// gets the same sequence of rounds on a given UTC date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic RNG seed for date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared so the seed is never negative
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
