package coingecko

import (
	"errors"
	"fmt"
)

// APIError CoinGecko API が非 2xx を返した場合のエラー
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// RateLimitError 429 を受けた場合のエラー
type RateLimitError struct {
	APIError
}

// Unwrap errors.As で埋め込みの *APIError を辿れるようにする
func (e *RateLimitError) Unwrap() error {
	return &e.APIError
}

// NewRateLimitError レートリミットエラーを生成する
func NewRateLimitError() *RateLimitError {
	return &RateLimitError{
		APIError: APIError{
			StatusCode: 429,
			Message:    "CoinGecko API rate limit exceeded. Please try again later.",
		},
	}
}

func newAPIError(statusCode int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("CoinGecko API error: status %d", statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: message}
}

// IsRateLimit 判定ヘルパー
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
