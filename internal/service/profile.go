package service

import (
	"context"
	"errors"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/types"
)

// maxCodeAttempts bounds regeneration retries on invitation code collisions.
const maxCodeAttempts = 5

// ProfileService handles user profile operations
type ProfileService struct {
	store    repository.ProfileStore
	generate CodeGenerator
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance. A nil generator
// uses GenerateInvitationCode.
func NewProfileService(store repository.ProfileStore, generate CodeGenerator) *ProfileService {
	if generate == nil {
		generate = GenerateInvitationCode
	}
	return &ProfileService{store: store, generate: generate}
}

// GetProfile retrieves the caller's profile
func (s *ProfileService) GetProfile(ctx context.Context, principal types.Principal) (*models.Profile, error) {
	profile, err := s.store.FindProfileByUserID(ctx, principal.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, err
}

// UpdateFullName changes the caller's full name and records the change.
func (s *ProfileService) UpdateFullName(ctx context.Context, principal types.Principal, fullName string) (*models.Profile, error) {
	name, err := normalizeFullName(fullName)
	if err != nil {
		return nil, err
	}

	current, err := s.GetProfile(ctx, principal)
	if err != nil {
		return nil, err
	}
	if current.FullName == name {
		return current, nil
	}

	updated, err := s.store.UpdateProfileFullName(ctx, principal.UserID, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	s.recordChange(ctx, principal, "full_name", current.FullName, name)
	return updated, nil
}

// RegenerateInvitationCode replaces the calling patient's invitation code.
// The previous code stops resolving as soon as the update commits.
func (s *ProfileService) RegenerateInvitationCode(ctx context.Context, principal types.Principal) (string, error) {
	if !principal.IsPatient() {
		return "", apperrors.ErrPatientOnly
	}

	current, err := s.GetProfile(ctx, principal)
	if err != nil {
		return "", err
	}
	if !current.IsPatient() {
		return "", apperrors.ErrPatientOnly
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return "", apperrors.NewInternalError(err)
		}

		_, err = s.store.UpdateProfileInvitationCode(ctx, principal.UserID, code)
		switch {
		case err == nil:
			old := ""
			if current.InvitationCode != nil {
				old = MaskInvitationCode(*current.InvitationCode)
			}
			s.recordChange(ctx, principal, "invitation_code", old, MaskInvitationCode(code))
			logger.Info("invitation code regenerated", "user_id", principal.UserID)
			return code, nil
		case errors.Is(err, repository.ErrDuplicate):
			logger.Warn("invitation code collision, retrying", "user_id", principal.UserID, "attempt", attempt)
		case errors.Is(err, repository.ErrNotFound):
			return "", apperrors.ErrProfileNotFound
		default:
			return "", err
		}
	}
	return "", apperrors.NewInternalError(errors.New("could not generate a unique invitation code"))
}

// GetProfileHistory retrieves the change history for the caller's profile
func (s *ProfileService) GetProfileHistory(ctx context.Context, principal types.Principal) ([]types.ProfileHistory, error) {
	history, err := s.store.ListProfileHistory(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	result := make([]types.ProfileHistory, len(history))
	for i, h := range history {
		result[i] = types.ProfileHistory{
			ID:        h.ID,
			UserID:    h.UserID,
			Field:     h.Field,
			OldValue:  h.OldValue,
			NewValue:  h.NewValue,
			ChangedAt: h.ChangedAt,
			ChangedBy: h.ChangedBy,
		}
	}
	return result, nil
}

// recordChange logs instead of failing the caller; the change itself is committed.
func (s *ProfileService) recordChange(ctx context.Context, principal types.Principal, field, oldValue, newValue string) {
	err := s.store.RecordProfileChange(ctx, &models.ProfileHistory{
		UserID:    principal.UserID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: principal.UserID,
	})
	if err != nil {
		logger.Error("failed to record profile change", "user_id", principal.UserID, "field", field, "error", err)
	}
}
