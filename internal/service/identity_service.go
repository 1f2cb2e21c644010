package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/domain"
	"github.com/spec-kit/event-tickets/internal/repository"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

// IdentityService resolves attendee identities keyed by email.
type IdentityService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewIdentityService constructs the service.
func NewIdentityService(users repository.UserRepository, logger *zap.Logger) *IdentityService {
	return &IdentityService{users: users, logger: logger}
}

// ResolveOrCreate finds the user owning email or creates one. Repeated calls
// with the same email always yield the same user; the name and external id
// on the request are ignored for an existing user. Used by the OAuth entry
// point, which tolerates re-entry.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, name, email, googleID string) (*domain.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.NewStoreUnavailable(err)
	}

	if googleID == "" {
		googleID = domain.ManualRegistrationID
	}
	user := &domain.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		GoogleID: googleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a concurrent race; the store's constraint decided.
			winner, readErr := s.users.GetByEmail(ctx, email)
			if readErr != nil {
				return nil, false, apperrors.NewStoreUnavailable(readErr)
			}
			return winner, false, nil
		}
		return nil, false, apperrors.NewStoreUnavailable(err)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, true, nil
}

// RegisterManual creates a user for the manual entry point. Manual
// registration is single-use per email: an existing user fails with an
// identity conflict and no ticket is issued.
func (s *IdentityService) RegisterManual(ctx context.Context, name, email string) (*domain.User, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.NewIdentityConflict()
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	user := &domain.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		GoogleID: domain.ManualRegistrationID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewIdentityConflict()
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	s.logger.Info("user registered manually", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}
