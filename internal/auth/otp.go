package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP возвращает 6-значный код в диапазоне [100000, 999999]
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}

// OTPExpiry - момент истечения кода в epoch миллисекундах
func OTPExpiry(now time.Time, ttl time.Duration) int64 {
	return now.Add(ttl).UnixMilli()
}

// OTPValid сверяет код и срок. Истекший код (now > expires) невалиден.
func OTPValid(stored, submitted string, expiresMs int64, now time.Time) bool {
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return false
	}
	return now.UnixMilli() <= expiresMs
}
