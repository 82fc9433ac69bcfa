package common

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator 產生不透明的唯一識別碼
type IDGenerator func() string

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// Clock 取得目前時間，測試時可替換
type Clock func() time.Time

// FormatTimestamp 以 ISO-8601 (RFC 3339, UTC) 輸出時間
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
