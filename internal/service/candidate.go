package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	domainerrors "github.com/talenttrackapp/talenttrack-server/internal/errors"
	"github.com/talenttrackapp/talenttrack-server/internal/id"
	"github.com/talenttrackapp/talenttrack-server/internal/search"
	"github.com/talenttrackapp/talenttrack-server/internal/sse"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// CandidateService manages candidate records.
type CandidateService struct {
	store   *store.Store
	search  *search.Index
	emitter EventEmitter
	logger  *slog.Logger
}

// NewCandidateService creates a new candidate service.
func NewCandidateService(store *store.Store, searchIndex *search.Index, emitter EventEmitter, logger *slog.Logger) *CandidateService {
	return &CandidateService{
		store:   store,
		search:  searchIndex,
		emitter: emitter,
		logger:  logger,
	}
}

// CreateCandidateRequest contains new candidate data.
type CreateCandidateRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Create adds a candidate to the pipeline. The creating user must exist;
// a dangling CreatedBy reference is never written.
func (s *CandidateService) Create(ctx context.Context, createdBy string, req CreateCandidateRequest) (*domain.Candidate, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if _, err := s.store.GetUser(ctx, createdBy); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFoundf("creator %s not found", createdBy)
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}

	candidateID, err := id.Generate("cand")
	if err != nil {
		return nil, fmt.Errorf("generate candidate ID: %w", err)
	}

	candidate := &domain.Candidate{
		ID:        candidateID,
		Name:      req.Name,
		Email:     req.Email,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateCandidate(ctx, candidate); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	// Search indexing is best-effort; the record of truth is the store.
	if err := s.search.IndexDocument(search.DocumentFromCandidate(candidate)); err != nil {
		s.logger.Warn("failed to index candidate", "candidate_id", candidateID, "error", err)
	}

	s.emitter.Emit(sse.NewCandidateCreatedEvent(candidate))
	s.logger.Info("candidate created", "candidate_id", candidateID, "created_by", createdBy)

	return candidate, nil
}

// Get retrieves a candidate by ID.
func (s *CandidateService) Get(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	candidate, err := s.store.GetCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			return nil, domainerrors.NotFoundf("candidate %s not found", candidateID)
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return candidate, nil
}

// List returns all candidates, newest first.
func (s *CandidateService) List(ctx context.Context) ([]*domain.Candidate, error) {
	candidates, err := s.store.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}
