package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/talenttrackapp/talenttrack-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search candidates and notes",
		Description: "Full-text search over candidate names, emails and note text",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindex",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Re-indexes every candidate and note from the store",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindex)
}

// SearchInput carries the search query parameters.
type SearchInput struct {
	Authorization string   `header:"Authorization" doc:"Bearer access token"`
	Query         string   `query:"q" doc:"Query text. Empty matches everything."`
	Types         []string `query:"types" enum:"candidate,note" doc:"Restrict results to these document types"`
	Limit         int      `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum hits"`
	Offset        int      `query:"offset" minimum:"0" doc:"Hits to skip for pagination"`
}

// SearchOutput wraps a search result page.
type SearchOutput struct {
	Body *search.Result
}

// ReindexOutput reports how many documents were indexed.
type ReindexOutput struct {
	Body struct {
		Indexed int `json:"indexed"`
	}
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	params := search.DefaultParams()
	params.Query = input.Query
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	for _, t := range input.Types {
		params.Types = append(params.Types, search.DocType(t))
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: result}, nil
}

func (s *Server) handleReindex(ctx context.Context, input *AuthedInput) (*ReindexOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	indexed, err := s.services.Search.ReindexAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &ReindexOutput{}
	out.Body.Indexed = indexed
	return out, nil
}
