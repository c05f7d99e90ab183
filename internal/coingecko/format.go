package coingecko

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatJPY 円表示（整数・3 桁区切り）
func FormatJPY(value float64) string {
	return "￥" + groupDigits(int64(math.Round(value)))
}

// FormatPercentage 符号付きパーセント表示
func FormatPercentage(value float64) string {
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatLargeNumber 大きな数値の短縮表示（1.5兆, 234億, 5万）
func FormatLargeNumber(value float64) string {
	switch {
	case value >= 1_000_000_000_000:
		return fmt.Sprintf("%.1f兆", value/1_000_000_000_000)
	case value >= 100_000_000:
		return fmt.Sprintf("%.0f億", value/100_000_000)
	case value >= 10_000:
		return fmt.Sprintf("%.0f万", value/10_000)
	}
	return groupDigits(int64(math.Round(value)))
}

func groupDigits(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
