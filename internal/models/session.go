package models

import "time"

// Session is one entry in a user's active-token set. Tokens are stored as
// SHA-256 hashes; logout removes exactly the presented token's entry and
// leaves the user's other sessions valid.
type Session struct {
	Base
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
