package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrToInt64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"plain id", "42", 42, false},
		{"negative", "-7", -7, false},
		{"empty", "", 0, true},
		{"not a number", "abc", 0, true},
		{"trailing garbage", "12x", 0, true},
		{"float", "3.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StrToInt64(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInt64ToStrRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 9007199254740993} {
		got, err := StrToInt64(Int64ToStr(n))
		assert.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
