package domain

import "time"

// Notification tells a user they were mentioned in a note.
// Exactly one notification exists per (note, tagged user) pair where the
// tagged user is not the note's author. CandidateName and MessagePreview are
// denormalized snapshots so the feed renders without joins.
type Notification struct {
	ID              string    `json:"id"`
	RecipientUserID string    `json:"recipient_user_id"`
	CandidateID     string    `json:"candidate_id"`
	CandidateName   string    `json:"candidate_name"`
	MessageID       string    `json:"message_id"` // Note ID
	MessagePreview  string    `json:"message_preview"`
	Timestamp       time.Time `json:"timestamp"`
	Read            bool      `json:"read"` // Transitions false -> true only, never reverts
}
