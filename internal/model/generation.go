package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringArray) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = StringArray{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if len(raw) == 0 {
		*s = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Generation 一次内容改写的结果，只有 AI 生成成功后才会写入
type Generation struct {
	ID        int64       `gorm:"primaryKey" json:"id"`
	UserID    int64       `gorm:"not null;index" json:"user_id"`
	SourceURL string      `gorm:"size:1000;not null" json:"source_url"`
	Tone      string      `gorm:"size:20" json:"tone"`
	Platforms StringArray `gorm:"type:json" json:"platforms"`
	Tweets    StringArray `gorm:"type:json" json:"tweets"`
	Linkedin  *string     `gorm:"type:text" json:"linkedin,omitempty"`
	Instagram *string     `gorm:"type:text" json:"instagram,omitempty"`
	Facebook  *string     `gorm:"type:text" json:"facebook,omitempty"`
	Email     *string     `gorm:"type:text" json:"email,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Generation) TableName() string {
	return "generations"
}
