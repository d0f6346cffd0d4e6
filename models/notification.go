package models

import "time"

// Notification types emitted by this service.
const (
	NotifSessionCreated    = "session_created"
	NotifSessionUpdated    = "session_updated"
	NotifSessionCancelled  = "session_cancelled"
	NotifSessionReminder   = "session_reminder"
	NotifSecurityViolation = "security_violation"
)

type Notification struct {
	ID        string         `bson:"id" json:"id"`
	UserID    string         `bson:"userId" json:"userId"`
	Type      string         `bson:"type" json:"type"`
	Title     string         `bson:"title" json:"title"`
	Body      string         `bson:"body" json:"body"`
	Data      map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool           `bson:"read" json:"read"`
	Sent      bool           `bson:"sent" json:"sent"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}
