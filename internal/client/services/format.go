package services

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/residentportal/internal/common"
)

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	otpRe   = regexp.MustCompile(`^\d{6}$`)
)

// FormatOTP keeps ASCII digits only and truncates to the OTP length.
func FormatOTP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == common.OTPLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ValidOTP(otp string) bool {
	return otpRe.MatchString(otp)
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// MaskEmail hides the local part except its first character:
// "resident@x.io" -> "r*******@x.io".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return email
	}
	runes := []rune(local)
	return string(runes[0]) + strings.Repeat("*", len(runes)-1) + "@" + domain
}
