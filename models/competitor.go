package models

import "time"

// Competitor is a ranked athlete. Email, when present, is the primary
// dedup key for sheet uploads and is unique case-insensitively.
type Competitor struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
