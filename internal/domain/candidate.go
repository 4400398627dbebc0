package domain

import "time"

// Candidate represents a candidate record tracked by recruiters.
// Candidates are created by users and own a thread of notes.
type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedBy string    `json:"created_by"` // User ID, must exist at creation time
	CreatedAt time.Time `json:"created_at"`
}
