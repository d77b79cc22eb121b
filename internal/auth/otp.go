package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpRange はOTPコードの取りうる値の幅（100000〜999999の90万通り）。
const (
	otpMin   = 100000
	otpRange = 900000
)

// GenerateOTPCode は6桁のOTPコードを生成する。
// 暗号的に安全な乱数源から[100000, 999999]の一様分布で抽選する。
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
