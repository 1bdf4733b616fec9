package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifyAnswer reports whether the submitted answer matches the expected
// code. Both sides are trimmed; a missing value on either side never passes.
func VerifyAnswer(expected, submitted string) bool {
	expected = strings.TrimSpace(expected)
	submitted = strings.TrimSpace(submitted)

	if expected == "" || submitted == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

// HashAnswer hashes a code for storage at rest.
func HashAnswer(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty code")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hashed), nil
}

// VerifyAnswerHash is VerifyAnswer against a code stored by HashAnswer.
func VerifyAnswerHash(hash, submitted string) bool {
	submitted = strings.TrimSpace(submitted)
	if hash == "" || submitted == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(submitted)) == nil
}
