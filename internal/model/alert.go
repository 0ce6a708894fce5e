package model

import "time"

type AlertStatus string

const (
	AlertStatusPending  AlertStatus = "pending"
	AlertStatusResolved AlertStatus = "resolved"
)

// DuplicateAlert is one row per duplicate-detection event. OriginalID is a
// non-owning back-reference to the matched IdentifierRecord, not a lifetime
// constraint. The detection path creates alerts as pending and never mutates
// them; resolution happens only through the admin surface.
type DuplicateAlert struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier string      `gorm:"size:255;not null;index" json:"identifier"`
	OriginalID uint        `gorm:"not null;index" json:"original_id"`
	GroupID    string      `gorm:"size:100" json:"group_id,omitempty"`
	MessageID  int64       `json:"message_id,omitempty"`
	UserID     int64       `json:"user_id,omitempty"`
	Status     AlertStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (DuplicateAlert) TableName() string {
	return "duplicate_alerts"
}
