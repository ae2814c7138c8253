package models

import "time"

// Document is one persisted collection stored as a JSON blob,
// used by the SQL store backends.
type Document struct {
	Key       string    `gorm:"column:doc_key;primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string {
	return "kv_documents"
}
