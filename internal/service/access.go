package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/types"
)

// Authorizer decides whether a caller may read a user's records.
type Authorizer interface {
	Authorize(ctx context.Context, principal types.Principal, targetUserID uuid.UUID) error
}

// AccessResolver computes the set of user ids a caller may read.
type AccessResolver struct {
	links repository.LinkStore
}

var _ Authorizer = (*AccessResolver)(nil)

func NewAccessResolver(links repository.LinkStore) *AccessResolver {
	return &AccessResolver{links: links}
}

// ResolveReadableUserIDs returns {self} for a patient and the linked patient
// ids for a guardian. A guardian never reads their own id.
func (r *AccessResolver) ResolveReadableUserIDs(ctx context.Context, principal types.Principal) ([]uuid.UUID, error) {
	switch principal.Role {
	case models.RolePatient:
		return []uuid.UUID{principal.UserID}, nil
	case models.RoleGuardian:
		links, err := r.links.ListLinksByGuardian(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.PatientID)
		}
		return ids, nil
	default:
		r.deny(ctx, principal, uuid.Nil, "unknown role")
		return nil, apperrors.ErrAccessDenied
	}
}

// Authorize fails with ErrAccessDenied when target is outside the caller's
// readable set.
func (r *AccessResolver) Authorize(ctx context.Context, principal types.Principal, targetUserID uuid.UUID) error {
	ids, err := r.ResolveReadableUserIDs(ctx, principal)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == targetUserID {
			return nil
		}
	}
	r.deny(ctx, principal, targetUserID, "target outside readable scope")
	return apperrors.ErrAccessDenied
}

func (r *AccessResolver) deny(ctx context.Context, principal types.Principal, target uuid.UUID, reason string) {
	logger.Security().WarnContext(ctx, "access denied",
		"user_id", principal.UserID,
		"role", principal.Role,
		"target_user_id", target,
		"reason", reason,
	)
}
