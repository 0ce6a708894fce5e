package notify

import (
	"encoding/json"
	"time"

	"github.com/aivahq/dupwatch/internal/model"
)

// Reporter identifies who submitted the duplicate occurrence.
type Reporter struct {
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Audience names where an alert should be delivered: the originating chat
// and/or the administrator list. Delivery itself belongs to the dispatcher.
type Audience struct {
	GroupID  string  `json:"group_id,omitempty"`
	AdminIDs []int64 `json:"admin_ids,omitempty"`
}

// AlertPayload is the structured content handed to the notification
// dispatcher. The core produces it; rendering and transport-specific escaping
// happen downstream.
type AlertPayload struct {
	AlertID        uint      `json:"alert_id"`
	Identifier     string    `json:"identifier"`
	IdentifierType string    `json:"identifier_type"`
	FirstSeen      time.Time `json:"first_seen"`
	Reporter       Reporter  `json:"reporter"`
	GroupID        string    `json:"group_id,omitempty"`
}

func (p *AlertPayload) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

// BuildAlertPayload assembles the notification content for one duplicate
// event. Pure formatting, no I/O.
func BuildAlertPayload(alert *model.DuplicateAlert, original *model.IdentifierRecord, reporter Reporter) *AlertPayload {
	return &AlertPayload{
		AlertID:        alert.ID,
		Identifier:     alert.Identifier,
		IdentifierType: original.IdentifierType,
		FirstSeen:      original.CreatedAt,
		Reporter:       reporter,
		GroupID:        alert.GroupID,
	}
}
