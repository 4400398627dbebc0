package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	"github.com/talenttrackapp/talenttrack-server/internal/service"
)

func (s *Server) registerCandidateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-candidate",
		Method:      http.MethodPost,
		Path:        "/api/v1/candidates",
		Summary:     "Create candidate",
		Tags:        []string{"Candidates"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCandidate)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-candidates",
		Method:      http.MethodGet,
		Path:        "/api/v1/candidates",
		Summary:     "List candidates",
		Description: "Returns all candidates, newest first",
		Tags:        []string{"Candidates"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCandidates)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-candidate",
		Method:      http.MethodGet,
		Path:        "/api/v1/candidates/{id}",
		Summary:     "Get candidate",
		Tags:        []string{"Candidates"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCandidate)
}

// CandidateResponse contains candidate information in API responses.
type CandidateResponse struct {
	ID        string    `json:"id" doc:"Candidate ID"`
	Name      string    `json:"name" doc:"Candidate name"`
	Email     string    `json:"email,omitempty" doc:"Candidate email"`
	CreatedBy string    `json:"created_by" doc:"User who added the candidate"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// CreateCandidateInput wraps the candidate creation request.
type CreateCandidateInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Body          struct {
		Name  string `json:"name" validate:"required,min=1,max=200" doc:"Candidate name"`
		Email string `json:"email,omitempty" validate:"omitempty,email" doc:"Candidate email"`
	}
}

// CandidateOutput wraps a single candidate.
type CandidateOutput struct {
	Body CandidateResponse
}

// CandidatesOutput wraps a candidate list.
type CandidatesOutput struct {
	Body struct {
		Candidates []CandidateResponse `json:"candidates"`
	}
}

// CandidateIDInput addresses a candidate by path parameter.
type CandidateIDInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Candidate ID"`
}

func (s *Server) handleCreateCandidate(ctx context.Context, input *CreateCandidateInput) (*CandidateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	candidate, err := s.services.Candidate.Create(ctx, userID, service.CreateCandidateRequest{
		Name:  input.Body.Name,
		Email: input.Body.Email,
	})
	if err != nil {
		return nil, err
	}

	return &CandidateOutput{Body: mapCandidateResponse(candidate)}, nil
}

func (s *Server) handleListCandidates(ctx context.Context, input *AuthedInput) (*CandidatesOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	candidates, err := s.services.Candidate.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &CandidatesOutput{}
	out.Body.Candidates = make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out.Body.Candidates = append(out.Body.Candidates, mapCandidateResponse(c))
	}
	return out, nil
}

func (s *Server) handleGetCandidate(ctx context.Context, input *CandidateIDInput) (*CandidateOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	candidate, err := s.services.Candidate.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CandidateOutput{Body: mapCandidateResponse(candidate)}, nil
}

func mapCandidateResponse(c *domain.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}
