package model

// SessionKV backs ports.Cache. ExpiresAt is empty for entries without a ttl.
type SessionKV struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	ExpiresAt string `gorm:"column:expires_at;type:text;not null;default:'';index"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (SessionKV) TableName() string {
	return "session_kv"
}
