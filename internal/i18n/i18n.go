package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// LocaleJA 既定ロケール。サイトは日本向けのため ja を既定とする。
const (
	LocaleJA = "ja"
	LocaleEN = "en"
)

// ResolveLocale リクエストからロケールを決定する
// 優先順: lang クエリ > Accept-Language ヘッダ > 既定 (ja)
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return LocaleJA
	}
	if lang := normalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := normalizeLocale(tag); lang != "" {
			return lang
		}
	}
	return LocaleJA
}

// T 指定キーの翻訳メッセージを返す
// 未知のキーはキーをそのまま返す
func T(locale, key string) string {
	if messages, ok := catalog[normalizeCatalogLocale(locale)]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[LocaleJA][key]; ok {
		return msg
	}
	return key
}

// Sprintf フォーマット引数付き翻訳メッセージを返す
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func normalizeLocale(tag string) string {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case normalized == "":
		return ""
	case strings.HasPrefix(normalized, "ja"):
		return LocaleJA
	case strings.HasPrefix(normalized, "en"):
		return LocaleEN
	default:
		return ""
	}
}

func normalizeCatalogLocale(locale string) string {
	if normalized := normalizeLocale(locale); normalized != "" {
		return normalized
	}
	return LocaleJA
}
