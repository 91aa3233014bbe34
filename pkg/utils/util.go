package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// TempPassword returns a random password that satisfies the register rules.
func TempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return "Hr" + strings.TrimRight(base64.RawURLEncoding.EncodeToString(buf), "=") + "9", nil
}

// MaskAccount keeps the last four characters of an account number visible.
func MaskAccount(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
