// models/session.go
package models

import "time"

// Session statuses. Cancelled and completed are terminal.
const (
	SessionScheduled  = "scheduled"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
)

// Session represents a scheduled meeting between a professional and one or
// more clients. Clients never mutate a session except to add or remove their
// own participation.
type Session struct {
	ID              string        `bson:"id" json:"id"`
	Title           string        `bson:"title" json:"title"`
	Description     string        `bson:"description,omitempty" json:"description,omitempty"`
	Category        string        `bson:"category,omitempty" json:"category,omitempty"`
	ProfessionalID  string        `bson:"professionalId" json:"professionalId"`
	StartTime       time.Time     `bson:"startTime" json:"startTime"`
	EndTime         time.Time     `bson:"endTime" json:"endTime"`
	Duration        int           `bson:"duration" json:"duration"` // minutes
	Status          string        `bson:"status" json:"status"`
	MaxParticipants int           `bson:"maxParticipants" json:"maxParticipants"`
	Participants    []Participant `bson:"participants" json:"participants"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Participant is a user reference embedded in a session.
type Participant struct {
	UserID   string    `bson:"userId" json:"userId"`
	Name     string    `bson:"name" json:"name"`
	Role     string    `bson:"role" json:"role"`
	JoinedAt time.Time `bson:"joinedAt" json:"joinedAt"`
}

// IsActive reports whether the session can still admit a video call:
// cancelled and completed sessions never can.
func (s *Session) IsActive() bool {
	return s.Status == SessionScheduled || s.Status == SessionInProgress
}

// IsParticipant reports whether the given user is listed on the session.
func (s *Session) IsParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant list has reached capacity.
func (s *Session) IsFull() bool {
	return s.MaxParticipants > 0 && len(s.Participants) >= s.MaxParticipants
}

// SessionSummary is the compact session representation returned alongside a
// video access token.
type SessionSummary struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ProfessionalID  string    `json:"professionalId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Status          string    `json:"status"`
	MaxParticipants int       `json:"maxParticipants"`
	Participants    int       `json:"participants"`
}

// Summary returns the compact representation of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:              s.ID,
		Title:           s.Title,
		ProfessionalID:  s.ProfessionalID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Status:          s.Status,
		MaxParticipants: s.MaxParticipants,
		Participants:    len(s.Participants),
	}
}
