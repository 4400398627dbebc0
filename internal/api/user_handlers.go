package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/talenttrackapp/talenttrack-server/internal/mention"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns all recruiter accounts, credentials stripped",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "suggest-users",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/suggest",
		Summary:     "Mention typeahead",
		Description: "Returns users whose display name starts with the given prefix, case-insensitively",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSuggestUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-current-user",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// AuthedInput is the base input for authenticated requests without parameters.
type AuthedInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// UsersOutput wraps a user list.
type UsersOutput struct {
	Body struct {
		Users []UserResponse `json:"users"`
	}
}

// SuggestInput carries the typeahead prefix.
type SuggestInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Prefix        string `query:"prefix" doc:"Name prefix being typed after '@'"`
	Limit         int    `query:"limit" default:"10" minimum:"1" maximum:"50" doc:"Maximum suggestions"`
}

// SuggestOutput wraps mention suggestions.
type SuggestOutput struct {
	Body struct {
		Suggestions []mention.UserRef `json:"suggestions"`
	}
}

// UserOutput wraps a single user.
type UserOutput struct {
	Body UserResponse
}

func (s *Server) handleListUsers(ctx context.Context, input *AuthedInput) (*UsersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.User.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &UsersOutput{}
	out.Body.Users = make([]UserResponse, 0, len(users))
	for _, u := range users {
		out.Body.Users = append(out.Body.Users, UserResponse{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			CreatedAt:   u.CreatedAt,
			LastLoginAt: u.LastLoginAt,
		})
	}
	return out, nil
}

func (s *Server) handleSuggestUsers(ctx context.Context, input *SuggestInput) (*SuggestOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	suggestions, err := s.services.User.Suggest(ctx, input.Prefix, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &SuggestOutput{}
	out.Body.Suggestions = suggestions
	return out, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthedInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	return &UserOutput{Body: UserResponse{
		ID:          public.ID,
		Name:        public.Name,
		Email:       public.Email,
		CreatedAt:   public.CreatedAt,
		LastLoginAt: public.LastLoginAt,
	}}, nil
}
