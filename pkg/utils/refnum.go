package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Crockford Base32 alphabet: no I, L, O, U to avoid ambiguous reference numbers.
const refAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// randomSuffix returns n random characters from the reference alphabet.
func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// time-derived suffix so the caller still gets a usable value.
		ts := time.Now().UnixNano()
		for i := range buf {
			buf[i] = refAlphabet[int(ts>>uint(i*5))&0x1F]
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = refAlphabet[int(buf[i])&0x1F]
	}
	return string(buf)
}

// NewDocumentNumber generates a human-readable reference like "INV-20260901-7GX2QF".
// Uniqueness is enforced by the database; a collision surfaces as a duplicate-key
// error rather than being silently retried.
func NewDocumentNumber(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), randomSuffix(6))
}

// NewSKU generates a stock keeping unit like "SKU-J8M4JTJ2" for inventory items
// created without one.
func NewSKU() string {
	return "SKU-" + randomSuffix(8)
}
