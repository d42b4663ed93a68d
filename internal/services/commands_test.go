package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	replies := DefaultReplies()

	cases := []struct {
		input string
		want  CommandKind
	}{
		{"hello", CommandStart},
		{"HELLO", CommandStart},
		{"مرحبا", CommandStart},
		{"ابدأ", CommandStart},
		{"stop", CommandStop},
		{"توقف", CommandStop},
		{"نعم", CommandAffirmative},
		{"yes", CommandAffirmative},
		{"لا", CommandNegative},
		{"no", CommandNegative},
		{"NO", CommandNegative},
		{"3", CommandFreeform},
		{"Ahmed", CommandFreeform},
		{"", CommandFreeform},
		{"hello there", CommandFreeform},
	}

	for _, tc := range cases {
		got := ParseCommand(tc.input, replies)
		assert.Equal(t, tc.want, got.Kind, "input %q", tc.input)
	}
}

func TestParseCommandTrimsText(t *testing.T) {
	replies := DefaultReplies()

	cmd := ParseCommand("  Ahmed  ", replies)
	assert.Equal(t, CommandFreeform, cmd.Kind)
	assert.Equal(t, "Ahmed", cmd.Text)

	cmd = ParseCommand("  نعم ", replies)
	assert.Equal(t, CommandAffirmative, cmd.Kind)
}
