package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/crypto-navi/api/internal/http/handlers/shared"
	"github.com/crypto-navi/api/internal/http/response"

	"github.com/gin-gonic/gin"
)

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// parseIDParam パスの :id を uint に変換する。不正値は応答済みで false を返す。
func parseIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// parseTimeNullable 任意の日時クエリを解釈する。空文字は nil。
// RFC3339 と日付のみ (2006-01-02) を受け付ける。
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
