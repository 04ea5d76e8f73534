// Package otp generates numeric one-time passwords.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateCode returns a random numeric code of the given length using
// crypto/rand. Leading zeros are allowed.
func GenerateCode(length int) (string, error) {
	if length < 4 || length > 10 {
		return "", fmt.Errorf("otp length %d out of range", length)
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
