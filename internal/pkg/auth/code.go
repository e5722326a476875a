package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// LoginCodeLength is the number of digits in a one-time login code
const LoginCodeLength = 6

// GenerateLoginCode produces a random numeric one-time code
func GenerateLoginCode() (string, error) {
	digits := make([]byte, LoginCodeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate login code: %w", err)
		}
		digits[i] = byte('0') + byte(n.Int64())
	}
	return string(digits), nil
}

// HashLoginCode hashes a one-time code for storage. Codes are short-lived
// but still never stored in clear.
func HashLoginCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash login code: %w", err)
	}
	return string(hash), nil
}

// CheckLoginCode compares a submitted code against a stored hash
func CheckLoginCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
