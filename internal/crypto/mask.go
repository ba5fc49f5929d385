package crypto

import "strings"

const (
	// MaskPlaceholder is shown when there are not enough digits to reveal.
	MaskPlaceholder = "XXXX-XXXX-XXXX"
	maskPrefix      = "XXXX-XXXX-"
	maskVisible     = 4
)

// Mask returns the display form of a document number: only the last four
// digits survive, everything else is replaced by the fixed prefix.
func Mask(value string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)

	if len(digits) < maskVisible {
		return MaskPlaceholder
	}
	return maskPrefix + digits[len(digits)-maskVisible:]
}
