package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Token     uuid.UUID  `db:"token" json:"token"`
	UserAgent *string    `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress *string    `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// IsLive reports whether the session can still authenticate requests at now.
func (s *Session) IsLive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
