package models

import "time"

// AdminCredential is the single editable admin login record. Stored and
// compared as plain text, as the deployments this replaces did.
type AdminCredential struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null" json:"username"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
