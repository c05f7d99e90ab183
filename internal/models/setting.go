package models

// Setting システム設定テーブル（キーバリュー保存）
type Setting struct {
	Key       string `gorm:"primarykey" json:"key"`  // 設定キー
	ValueJSON JSON   `gorm:"type:json" json:"value"` // 設定値
}

// TableName テーブル名
func (Setting) TableName() string {
	return "settings"
}
