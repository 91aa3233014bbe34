// Package kiosk produces the codes shown on attendance screens: a rotating
// TOTP code per organization and QR images for any punch token.
package kiosk

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

const issuer = "HRMS Attendance"

var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func NewSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate kiosk secret: %w", err)
	}
	return key.Secret(), nil
}

func CurrentCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCode(secret, at)
}

func Verify(code, secret string, at time.Time) bool {
	if code == "" || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, at, validateOpts)
	if err != nil {
		return false
	}
	return ok
}

// LooksLikeCode reports whether s has the shape of a kiosk TOTP code.
func LooksLikeCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// QRDataURL encodes content as a PNG QR code data URL.
func QRDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
