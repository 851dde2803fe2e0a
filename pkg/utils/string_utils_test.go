package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNullString(t *testing.T) {
	assert.Nil(t, NewNullString(""), "empty string maps to NULL")

	got := NewNullString("192.0.2.1")
	if assert.NotNil(t, got) {
		assert.Equal(t, "192.0.2.1", *got)
	}
}
