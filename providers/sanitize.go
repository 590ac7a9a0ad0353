package providers

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxOrderInfoLength = 255

// SanitizeOrderInfo strips diacritics and anything that is not a letter, digit
// or space, and caps the result at 255 characters. An empty result falls back
// to a generic description for orderID.
func SanitizeOrderInfo(s string, orderID uint) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(mapStroke),
		norm.NFC,
	)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = ""
	}

	var b strings.Builder
	space := false
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte(' ')
			}
			space = true
		}
	}

	out := strings.TrimSpace(b.String())
	if r := []rune(out); len(r) > maxOrderInfoLength {
		out = strings.TrimSpace(string(r[:maxOrderInfoLength]))
	}
	if out == "" {
		return fmt.Sprintf("Thanh toan don hang %d", orderID)
	}
	return out
}

// đ and Đ carry a stroke, not a combining mark, so NFD leaves them intact.
func mapStroke(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
}
