package tracking

import (
	"fmt"

	"github.com/crypto-navi/api/internal/constants"
)

// ImpressionTagURL ASP ごとのインプレッション計測タグ URL を返す。
// 直接提携（direct）や未知の ASP には計測タグが存在しない。
func ImpressionTagURL(asp, programID, mediaID string) (string, bool) {
	switch asp {
	case constants.ASPA8:
		return fmt.Sprintf("https://www19.a8.net/0.gif?a8mat=%s+%s", programID, mediaID), true
	case constants.ASPAccessTrade:
		return fmt.Sprintf("https://h.accesstrade.net/sp/cc?rk=%s", programID), true
	case constants.ASPTCS:
		return fmt.Sprintf("https://www.tcs-asp.net/alink?AC=%s&LC=%s", programID, mediaID), true
	default:
		return "", false
	}
}
