package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/types"
)

// LinkService redeems invitation codes and manages guardian–patient links.
type LinkService struct {
	profiles repository.ProfileStore
	links    repository.LinkStore
}

var _ ILinkService = (*LinkService)(nil)

func NewLinkService(profiles repository.ProfileStore, links repository.LinkStore) *LinkService {
	return &LinkService{profiles: profiles, links: links}
}

// LinkByCode links the calling guardian to the patient holding rawCode.
func (s *LinkService) LinkByCode(ctx context.Context, principal types.Principal, rawCode string) (*types.PatientSummary, error) {
	if !principal.IsGuardian() {
		return nil, apperrors.ErrGuardianOnly
	}

	code, err := NormalizeInvitationCode(rawCode)
	if err != nil {
		return nil, err
	}

	patient, err := s.profiles.FindProfileByInvitationCode(ctx, code, models.RolePatient)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	if patient.UserID == principal.UserID {
		return nil, apperrors.ErrSelfLinkNotAllowed
	}

	_, err = s.links.FindLink(ctx, principal.UserID, patient.UserID)
	switch {
	case err == nil:
		return nil, apperrors.ErrAlreadyLinked
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	// A concurrent redemption can pass the check above; the unique index
	// decides the winner.
	if _, err := s.links.InsertLink(ctx, principal.UserID, patient.UserID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrAlreadyLinked
		}
		return nil, err
	}

	logger.Info("guardian linked to patient", "guardian_id", principal.UserID, "patient_id", patient.UserID)
	return &types.PatientSummary{UserID: patient.UserID, FullName: patient.FullName}, nil
}

// Unlink removes the link between the caller and counterpartID. Guardians
// pass a patient id and patients pass a guardian id.
func (s *LinkService) Unlink(ctx context.Context, principal types.Principal, counterpartID uuid.UUID) error {
	var guardianID, patientID uuid.UUID
	switch principal.Role {
	case models.RoleGuardian:
		guardianID, patientID = principal.UserID, counterpartID
	case models.RolePatient:
		guardianID, patientID = counterpartID, principal.UserID
	default:
		logger.Security().WarnContext(ctx, "access denied",
			"user_id", principal.UserID,
			"role", principal.Role,
			"target_user_id", counterpartID,
			"reason", "unknown role",
		)
		return apperrors.ErrAccessDenied
	}

	err := s.links.DeleteLink(ctx, guardianID, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrLinkNotFound
	}
	if err != nil {
		return err
	}

	logger.Info("guardian unlinked from patient", "guardian_id", guardianID, "patient_id", patientID, "by", principal.UserID)
	return nil
}

// ListPatients returns the patients linked to the calling guardian.
func (s *LinkService) ListPatients(ctx context.Context, principal types.Principal) ([]types.LinkedPatient, error) {
	if !principal.IsGuardian() {
		return nil, apperrors.ErrGuardianOnly
	}
	links, err := s.links.ListLinksByGuardian(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	linkedAt := make(map[uuid.UUID]time.Time, len(links))
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		linkedAt[l.PatientID] = l.CreatedAt
		ids = append(ids, l.PatientID)
	}
	profiles, err := s.profiles.FindProfilesByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.LinkedPatient, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		lp := types.LinkedPatient{UserID: p.UserID, FullName: p.FullName, LinkedAt: linkedAt[p.UserID]}
		if pk, ok := p.Kind().(models.PatientKind); ok {
			lp.DiabetesType = pk.DiabetesType
		}
		out = append(out, lp)
	}
	return out, nil
}

// ListGuardians returns the guardians with read access to the calling patient.
func (s *LinkService) ListGuardians(ctx context.Context, principal types.Principal) ([]types.LinkedGuardian, error) {
	if !principal.IsPatient() {
		return nil, apperrors.ErrPatientOnly
	}
	links, err := s.links.ListLinksByPatient(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	linkedAt := make(map[uuid.UUID]time.Time, len(links))
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		linkedAt[l.GuardianID] = l.CreatedAt
		ids = append(ids, l.GuardianID)
	}
	profiles, err := s.profiles.FindProfilesByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.LinkedGuardian, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, types.LinkedGuardian{UserID: p.UserID, FullName: p.FullName, LinkedAt: linkedAt[p.UserID]})
	}
	return out, nil
}
