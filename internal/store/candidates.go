package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

// ErrCandidateNotFound is returned when a candidate cannot be found by ID.
var ErrCandidateNotFound = errors.New("candidate not found")

// CreateCandidate creates a new candidate record.
func (s *Store) CreateCandidate(ctx context.Context, candidate *domain.Candidate) error {
	return s.Candidates.Create(ctx, candidate.ID, candidate)
}

// GetCandidate retrieves a candidate by ID.
func (s *Store) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	candidate, err := s.Candidates.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCandidateNotFound
	}
	return candidate, err
}

// CandidateExists reports whether a candidate with the given ID exists.
func (s *Store) CandidateExists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists([]byte(candidatePrefix + id))
}

// ListCandidates returns all candidates sorted by creation time, newest first.
func (s *Store) ListCandidates(ctx context.Context) ([]*domain.Candidate, error) {
	var candidates []*domain.Candidate
	for candidate, err := range s.Candidates.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list candidates: %w", err)
		}
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	return candidates, nil
}
