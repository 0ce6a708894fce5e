package model

import (
	"encoding/json"
	"time"
)

// IdentifierRecord is one row per identifier accepted as the canonical first
// occurrence. The unique index on Identifier is the invariant the whole
// system protects: two concurrent inserts of the same value cannot both
// succeed.
type IdentifierRecord struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier     string    `gorm:"size:255;not null;uniqueIndex" json:"identifier"`
	IdentifierType string    `gorm:"size:32;not null" json:"identifier_type"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	GroupID        string    `gorm:"size:100" json:"group_id,omitempty"`
	MessageID      int64     `json:"message_id,omitempty"`
	UserID         int64     `json:"user_id,omitempty"`
	IsDuplicate    bool      `gorm:"not null;default:false" json:"is_duplicate"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IdentifierRecord) TableName() string {
	return "identifier_records"
}

func (r *IdentifierRecord) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

// Origin carries the provenance of a candidate: which chat, which message,
// which user submitted it. All fields are optional, write-once metadata.
type Origin struct {
	GroupID   string `json:"group_id,omitempty"`
	MessageID int64  `json:"message_id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
}
