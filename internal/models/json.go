package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON 構造化コンテンツ保存用の汎用 JSON 型
type JSON map[string]interface{}

// Value driver.Valuer 実装
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan sql.Scanner 実装
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringArray 文字列配列型。メリット・デメリット一覧等の保存に使う。
type StringArray []string

// Value driver.Valuer 実装
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan sql.Scanner 実装
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}
