// models/access_log.go
package models

import "time"

// Access types recorded in the video call audit trail.
const (
	AccessJoin              = "join"
	AccessLeave             = "leave"
	AccessDenied            = "denied"
	AccessSecurityViolation = "security_violation"
	AccessVerify            = "verify"
)

// SecurityFlags captures the individual checks behind an access decision.
// Access is granted only when all four hold.
type SecurityFlags struct {
	TokenValid       bool `bson:"tokenValid" json:"tokenValid"`
	SessionActive    bool `bson:"sessionActive" json:"sessionActive"`
	UserAuthorized   bool `bson:"userAuthorized" json:"userAuthorized"`
	TimeWithinWindow bool `bson:"timeWithinWindow" json:"timeWithinWindow"`
}

// AllGranted reports whether every security check passed.
func (f SecurityFlags) AllGranted() bool {
	return f.TokenValid && f.SessionActive && f.UserAuthorized && f.TimeWithinWindow
}

// VideoCallAccessLog is an append-only audit record of a video access
// attempt. Records are never updated or deleted.
type VideoCallAccessLog struct {
	ID          string        `bson:"id" json:"id"`
	SessionID   string        `bson:"sessionId" json:"sessionId"`
	UserID      string        `bson:"userId" json:"userId"`
	Role        string        `bson:"role" json:"role"`
	AccessType  string        `bson:"accessType" json:"accessType"`
	IP          string        `bson:"ip" json:"ip"`
	UserAgent   string        `bson:"userAgent" json:"userAgent"`
	TokenSuffix string        `bson:"tokenSuffix,omitempty" json:"tokenSuffix,omitempty"`
	Flags       SecurityFlags `bson:"flags" json:"flags"`
	Reason      string        `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
