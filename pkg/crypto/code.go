package crypto

import (
	"crypto/rand"
	"fmt"
)

// GenerateNumericCode produces a string of exactly length decimal digits.
// Codes are short-lived and rate-limited, but seeding them from the OS
// entropy source keeps them unguessable within their validity window.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := randomRead(buf); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + rejectionSampleDigit(b)
	}
	return string(digits), nil
}

// rejectionSampleDigit maps a random byte to 0-9 without modulo bias.
// Bytes in [250, 255] are folded back through a fresh read.
func rejectionSampleDigit(b byte) byte {
	for b >= 250 {
		var one [1]byte
		if _, err := rand.Read(one[:]); err != nil {
			// rand.Read failing means the entropy source is gone; the
			// residual bias of a plain modulo is acceptable then.
			break
		}
		b = one[0]
	}
	return b % 10
}
