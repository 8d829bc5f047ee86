package errors

import (
	"unicode"
	"unicode/utf8"
)

// maxLabelLength bounds scale names and secondary labels.
const maxLabelLength = 64

// ValidateLabel validates a scale name or secondary label taken from external
// input (instrument files, HTTP bodies).
//
// Labels may contain any printable rune, including symbols such as "x²" or "π",
// but no control characters, and must be at most 64 runes long.
func ValidateLabel(label string) error {
	if !utf8.ValidString(label) {
		return New(ErrCodeInvalidInput, "label is not valid UTF-8")
	}
	if utf8.RuneCountInString(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}
