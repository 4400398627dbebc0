package domain

import "time"

// Note preview truncation. Previews longer than PreviewMaxLength runes
// are cut to previewKeepLength runes plus an ellipsis marker.
const (
	PreviewMaxLength  = 50
	previewKeepLength = 47
	previewEllipsis   = "..."
)

// Note is a single entry in a candidate's note thread.
// Notes for a candidate are totally ordered by Timestamp ascending.
type Note struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidate_id"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"` // Snapshot of the author's display name
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
	TaggedUserIDs []string  `json:"tagged_user_ids"` // Deduped, never contains AuthorID
}

// Preview returns the truncated note text used on notifications.
// Texts of up to PreviewMaxLength runes pass through unchanged; longer
// texts are cut to previewKeepLength runes with an ellipsis appended.
func (n *Note) Preview() string {
	runes := []rune(n.Text)
	if len(runes) <= PreviewMaxLength {
		return n.Text
	}
	return string(runes[:previewKeepLength]) + previewEllipsis
}

// Tagged reports whether the given user is tagged on this note.
func (n *Note) Tagged(userID string) bool {
	for _, id := range n.TaggedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
