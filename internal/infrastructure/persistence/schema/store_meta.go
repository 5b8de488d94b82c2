package schema

import "time"

const (
	MetaSchemaVersion = "schema_version"
	MetaInitializedAt = "initialized_at"
)

// CurrentVersion is bumped whenever a model in sqlite/model changes shape.
const CurrentVersion = "1"

type StoreMeta struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Key       string    `gorm:"column:key;type:text;uniqueIndex;not null"`
	Value     string    `gorm:"column:value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (StoreMeta) TableName() string {
	return "store_meta"
}
