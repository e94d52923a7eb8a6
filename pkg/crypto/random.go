package crypto

import (
	"crypto/rand"
	"math"
)

const (
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	digitAlphabet    = "0123456789"

	// DefaultPasswordLength comfortably clears the ten-symbol minimum
	// of the issued-password policy.
	DefaultPasswordLength = 12

	maxMask = 255
)

// StringGenerator draws uniformly random strings from a fixed ASCII
// alphabet using masked rejection sampling, so no alphabet position is
// favored over another.
type StringGenerator struct {
	alphabet string
	mask     int
}

func getMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return maxMask // Max mask for 8 bits
}

// NewPasswordGenerator issues passwords drawn from mixed-case
// alphanumerics.
func NewPasswordGenerator() *StringGenerator {
	return &StringGenerator{
		alphabet: passwordAlphabet,
		mask:     getMask(len(passwordAlphabet)),
	}
}

// NewDigitGenerator issues numeric suffixes for account IDs.
func NewDigitGenerator() *StringGenerator {
	return &StringGenerator{
		alphabet: digitAlphabet,
		mask:     getMask(len(digitAlphabet)),
	}
}

func (g *StringGenerator) Generate(size int) (string, error) {
	if size <= 0 {
		size = DefaultPasswordLength
	}

	alphabetLen := len(g.alphabet)
	step := int(math.Ceil(1.6 * float64(g.mask*size) / float64(alphabetLen)))

	id := make([]byte, size)
	buffer := make([]byte, step)

	for position := 0; position < size; {
		// Generate random bytes
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Map random bytes to alphabet characters
		for i := 0; i < step && position < size; i++ {
			// Apply mask to get candidate index
			index := buffer[i] & byte(g.mask)

			// Use index if it's valid for our alphabet
			if int(index) < alphabetLen {
				id[position] = g.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
