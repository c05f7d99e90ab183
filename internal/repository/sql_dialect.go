package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName データベース方言名を返す。未判定時は sqlite 扱い。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// likeOperatorByDialect postgres では大文字小文字を無視する ILIKE を使う。
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildLikeCondition 複数カラムの OR 結合 LIKE 条件と引数数を返す。
func buildLikeCondition(db *gorm.DB, columns []string) (string, int) {
	return buildLikeConditionByDialect(dbDialectName(db), columns)
}

func buildLikeConditionByDialect(dialect string, columns []string) (string, int) {
	operator := likeOperatorByDialect(dialect)
	parts := make([]string, 0, len(columns))
	argCount := 0
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
		argCount++
	}
	return strings.Join(parts, " OR "), argCount
}

// repeatLikeArgs 同一の LIKE 引数を必要数だけ並べる。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
