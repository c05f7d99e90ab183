package service

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/crypto-navi/api/internal/config"
)

// ErrWeakPassword パスワードが強度要件を満たさない
var ErrWeakPassword = errors.New("パスワードが強度要件を満たしていません")

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber &&
		!policy.RequireSpecial {
		return nil
	}

	if policy.MinLength > 0 {
		if len([]rune(password)) < policy.MinLength {
			return fmt.Errorf("%w: %d 文字以上にしてください", ErrWeakPassword, policy.MinLength)
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: 大文字を含めてください", ErrWeakPassword)
	}
	if policy.RequireLower && !hasLower {
		return fmt.Errorf("%w: 小文字を含めてください", ErrWeakPassword)
	}
	if policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: 数字を含めてください", ErrWeakPassword)
	}
	if policy.RequireSpecial && !hasSpecial {
		return fmt.Errorf("%w: 記号を含めてください", ErrWeakPassword)
	}

	return nil
}
