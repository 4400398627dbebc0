package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talenttrackapp/talenttrack-server/internal/search"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// SearchService runs full-text queries over candidates and notes.
type SearchService struct {
	store  *store.Store
	search *search.Index
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, searchIndex *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  store,
		search: searchIndex,
		logger: logger,
	}
}

// Search executes a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	result, err := s.search.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// DocumentCount reports the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.search.DocumentCount()
}

// ReindexAll rebuilds the search index from the store. Called at startup
// when the index was recreated, and available as a maintenance operation.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	var docs []*search.SearchDocument

	candidates, err := s.store.ListCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list candidates: %w", err)
	}

	names := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		names[candidate.ID] = candidate.Name
		docs = append(docs, search.DocumentFromCandidate(candidate))
	}

	notes, err := s.store.ListAllNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notes: %w", err)
	}
	for _, note := range notes {
		docs = append(docs, search.DocumentFromNote(note, names[note.CandidateID]))
	}

	if err := s.search.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search reindex complete", "documents", len(docs))
	return len(docs), nil
}
