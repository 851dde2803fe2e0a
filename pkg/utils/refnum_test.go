package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentNumber(t *testing.T) {
	number := NewDocumentNumber("INV")

	parts := strings.Split(number, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "INV", parts[0])
	assert.Equal(t, time.Now().Format("20060102"), parts[1])
	assert.Len(t, parts[2], 6)
	for _, ch := range parts[2] {
		assert.Contains(t, refAlphabet, string(ch))
	}
}

func TestNewDocumentNumber_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewDocumentNumber("RCP")] = true
	}
	// Random suffixes should practically never collide in 50 draws.
	assert.Greater(t, len(seen), 45)
}

func TestNewSKU(t *testing.T) {
	sku := NewSKU()

	assert.True(t, strings.HasPrefix(sku, "SKU-"))
	assert.Len(t, sku, len("SKU-")+8)
	assert.NotContains(t, sku[4:], "I")
	assert.NotContains(t, sku[4:], "L")
	assert.NotContains(t, sku[4:], "O")
	assert.NotContains(t, sku[4:], "U")
}
