package models

import (
	"time"
)

// User is the slice of the platform user record the ledger needs: an
// identity to attach a wallet to and a role for admin gating. Profile,
// credentials and the social graph live elsewhere.
type User struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	Role      string `gorm:"default:'user'"`
	Status    string `gorm:"default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
