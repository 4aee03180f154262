package domain

import (
	"fmt"
	"strings"
)

const MaxTokenLength = 256

// NormalizeToken trims surrounding whitespace from a raw header value and
// validates what is left. Header values must be visible ASCII.
func NormalizeToken(raw string) (string, error) {
	tok := strings.TrimSpace(raw)
	if tok == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	if len(tok) > MaxTokenLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidToken, MaxTokenLength)
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c < 0x20 || c > 0x7e {
			return "", fmt.Errorf("%w: non-visible byte at offset %d", ErrInvalidToken, i)
		}
	}
	return tok, nil
}
