package models

import "time"

// KVEntry backs the key-value store on SQL databases.
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;type:varchar(191)"`
	Value     []byte    `gorm:"column:entry_value;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
