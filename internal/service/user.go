package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	"github.com/talenttrackapp/talenttrack-server/internal/mention"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// UserService exposes user listings and mention typeahead.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// List returns all users with credentials stripped, oldest first.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	public := make([]*domain.User, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, nil
}

// Suggest returns users whose display name starts with prefix,
// case-insensitively. Backs the @mention typeahead.
func (s *UserService) Suggest(ctx context.Context, prefix string, limit int) ([]mention.UserRef, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	refs := make([]mention.UserRef, 0, len(users))
	for _, u := range users {
		refs = append(refs, mention.UserRef{ID: u.ID, Name: u.Name})
	}

	suggestions := mention.NewIndex(refs).Suggest(prefix, limit)
	if suggestions == nil {
		suggestions = []mention.UserRef{}
	}
	return suggestions, nil
}
