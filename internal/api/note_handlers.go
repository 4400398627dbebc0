package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	"github.com/talenttrackapp/talenttrack-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "add-note",
		Method:      http.MethodPost,
		Path:        "/api/v1/candidates/{id}/notes",
		Summary:     "Add note",
		Description: "Appends a note to the candidate's thread. @mentions of known users create notifications for everyone tagged except the author.",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-notes",
		Method:      http.MethodGet,
		Path:        "/api/v1/candidates/{id}/notes",
		Summary:     "Get note thread",
		Description: "Returns the candidate's notes, oldest first",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetNotes)
}

// NoteResponse contains note information in API responses.
type NoteResponse struct {
	ID            string    `json:"id" doc:"Note ID"`
	CandidateID   string    `json:"candidate_id" doc:"Owning candidate"`
	AuthorID      string    `json:"author_id" doc:"Authoring user"`
	AuthorName    string    `json:"author_name" doc:"Author display name at write time"`
	Text          string    `json:"text" doc:"Note text"`
	Timestamp     time.Time `json:"timestamp" doc:"Creation time"`
	TaggedUserIDs []string  `json:"tagged_user_ids,omitempty" doc:"Users mentioned in the note"`
}

// AddNoteInput wraps the note creation request.
type AddNoteInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Candidate ID"`
	Body          struct {
		Text        string   `json:"text" doc:"Note text"`
		TaggedNames []string `json:"tagged_names,omitempty" doc:"Display names tagged while typing"`
	}
}

// NoteOutput wraps a created note.
type NoteOutput struct {
	Body NoteResponse
}

// NotesOutput wraps a note thread.
type NotesOutput struct {
	Body struct {
		Notes []NoteResponse `json:"notes"`
	}
}

func (s *Server) handleAddNote(ctx context.Context, input *AddNoteInput) (*NoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Note.AddNote(ctx, userID, service.AddNoteRequest{
		CandidateID: input.ID,
		Text:        input.Body.Text,
		TaggedNames: input.Body.TaggedNames,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(result.Note)}, nil
}

func (s *Server) handleGetNotes(ctx context.Context, input *CandidateIDInput) (*NotesOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	notes, err := s.services.Note.GetThread(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &NotesOutput{}
	out.Body.Notes = make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out.Body.Notes = append(out.Body.Notes, mapNoteResponse(n))
	}
	return out, nil
}

func mapNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:            n.ID,
		CandidateID:   n.CandidateID,
		AuthorID:      n.AuthorID,
		AuthorName:    n.AuthorName,
		Text:          n.Text,
		Timestamp:     n.Timestamp,
		TaggedUserIDs: n.TaggedUserIDs,
	}
}
