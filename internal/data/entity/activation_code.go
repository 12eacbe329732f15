package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivationCode is single use. IsUsed, UsedByID and UsedAt are written together
// exactly once and never reverted.
type ActivationCode struct {
	BaseSimple
	Code     string     `db:"code"`
	IsUsed   bool       `db:"is_used"`
	UsedByID *uuid.UUID `db:"used_by_id"`
	UsedAt   *time.Time `db:"used_at"`
}
