package entity

import "time"

// Profile stores the registration data collected during onboarding.
// Keyed uniquely by the Telegram user id; name and phone are written once,
// only the language may change afterwards.
type Profile struct {
	UserID    int64     `json:"user_id"`
	Language  string    `json:"language"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete reports whether every onboarding field has been collected.
func (p *Profile) Complete() bool {
	return p != nil && p.Language != "" && p.FirstName != "" && p.LastName != "" && p.Phone != ""
}
