package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneValid(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"96892123456", "96892123456"},
		{"+96892123456", "96892123456"},
		{"+966 50 123 4567", "966501234567"},
		{"966-501-234-567", "966501234567"},
		{"1 (212) 555-1234", "12125551234"},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.input)
		assert.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestNormalizePhoneRejected(t *testing.T) {
	cases := []string{
		"",
		"12345",
		"hello",
		"0501234567",      // no country code
		"96812",           // too short
		"966501234567890", // too long
	}

	for _, input := range cases {
		_, err := NormalizePhone(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}

func TestStripPlus(t *testing.T) {
	assert.Equal(t, "96892123456", StripPlus("+96892123456"))
	assert.Equal(t, "96892123456", StripPlus("96892123456"))
}
