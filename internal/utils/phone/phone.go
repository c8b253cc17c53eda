// Package phone normalizes phone numbers into the key format used for
// conversation state and persistence.
package phone

import "strings"

// Normalize strips the leading "+", spaces and dashes so the same number always
// maps to the same user key. The WhatsApp Graph API reports senders without a
// leading "+".
func Normalize(number string) string {
	trimmed := strings.TrimSpace(number)
	trimmed = strings.TrimPrefix(trimmed, "+")
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
