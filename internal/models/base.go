package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel defines the common fields for gorm-backed records.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// SnapshotRecord stores one encoded system snapshot in a relational database.
// Name identifies the snapshot slot; saving again overwrites the row.
type SnapshotRecord struct {
	BaseModel
	Name     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Version  int       `gorm:"not null" json:"version"`
	Checksum string    `gorm:"type:char(64);not null" json:"checksum"`
	SavedAt  time.Time `gorm:"not null" json:"savedAt"`
	Payload  []byte    `gorm:"not null" json:"-"`
}

// TableName pins the table name used by the snapshot backend.
func (SnapshotRecord) TableName() string {
	return "snapshot_records"
}
