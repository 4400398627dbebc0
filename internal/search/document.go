// Package search provides full-text search over candidates and notes,
// backed by a Bleve index on disk.
package search

import (
	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

// DocType identifies what kind of record a search document describes.
type DocType string

const (
	DocTypeCandidate DocType = "candidate"
	DocTypeNote      DocType = "note"
)

// SearchDocument is the flattened, indexable form of a candidate or note.
type SearchDocument struct {
	ID          string  `json:"id"`
	Type        DocType `json:"type"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	Text        string  `json:"text,omitempty"`
	CandidateID string  `json:"candidate_id,omitempty"`
	CreatedAt   int64   `json:"created_at"` // Unix millis, for recency sorting
}

// ToMap converts the document to a map so indexed field names match the
// mapping exactly.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}
	if d.Email != "" {
		m["email"] = d.Email
	}
	if d.Text != "" {
		m["text"] = d.Text
	}
	if d.CandidateID != "" {
		m["candidate_id"] = d.CandidateID
	}
	return m
}

// DocumentFromCandidate builds a search document from a candidate record.
func DocumentFromCandidate(c *domain.Candidate) *SearchDocument {
	return &SearchDocument{
		ID:        c.ID,
		Type:      DocTypeCandidate,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.UnixMilli(),
	}
}

// DocumentFromNote builds a search document from a note. The candidate name
// is denormalized in so note hits can render without a second lookup.
func DocumentFromNote(n *domain.Note, candidateName string) *SearchDocument {
	return &SearchDocument{
		ID:          n.ID,
		Type:        DocTypeNote,
		Name:        candidateName,
		Text:        n.Text,
		CandidateID: n.CandidateID,
		CreatedAt:   n.Timestamp.UnixMilli(),
	}
}
