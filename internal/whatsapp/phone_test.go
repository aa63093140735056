package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		in, code, want string
	}{
		{"+44 7700 900123", "44", "447700900123"},
		{"07700 900123", "44", "447700900123"},
		{"(0)7700-900123", "44", "447700900123"},
		{"44 07700 900123", "44", "447700900123"},
		{"0044 7700 900123", "44", "447700900123"},
		{"054-123-4567", "972", "972541234567"},
		{"+1 (555) 123-4567", "", "15551234567"},
		{"07700900123", "", "07700900123"},
		{"", "44", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhoneNumber(tt.in, tt.code), tt.in)
	}
}
