package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "123412341234", want: "XXXX-XXXX-1234"},
		{in: "1234 5678 9012", want: "XXXX-XXXX-9012"},
		{in: "12", want: "XXXX-XXXX-XXXX"},
		{in: "", want: "XXXX-XXXX-XXXX"},
		{in: "UNKNOWN-DOC", want: "XXXX-XXXX-XXXX"},
		{in: "ab1c2d3e4", want: "XXXX-XXXX-1234"},
		{in: "1234", want: "XXXX-XXXX-1234"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}

func TestMask_NeverRevealsMoreThanFourDigits(t *testing.T) {
	for _, in := range []string{"123456789012", "9876-5432-1098-7654", "0000000000000000000"} {
		masked := Mask(in)
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, masked)
		assert.LessOrEqual(t, len(digits), 4)
		assert.True(t, strings.HasSuffix(in, digits) || strings.HasSuffix(strings.ReplaceAll(in, "-", ""), digits))
	}
}
