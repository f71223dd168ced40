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

// maxClockSkew tolerates client clocks slightly ahead of the server.
const maxClockSkew = time.Minute

// RecordUpdate edits a stored reading. A non-nil blank InsulinUnits clears it.
type RecordUpdate struct {
	MeasuredAt   *time.Time
	InsulinUnits *string
}

// GlucoseService stores and reads glucose records on behalf of a principal.
type GlucoseService struct {
	records repository.GlucoseStore
	access  Authorizer
	now     func() time.Time
}

var _ IGlucoseService = (*GlucoseService)(nil)

func NewGlucoseService(records repository.GlucoseStore, access Authorizer) *GlucoseService {
	return &GlucoseService{records: records, access: access, now: time.Now}
}

// CreateRecord validates raw and stores it for the calling patient. A nil
// measuredAt means now.
func (s *GlucoseService) CreateRecord(ctx context.Context, principal types.Principal, raw RawReading, measuredAt *time.Time) (*models.GlucoseRecord, error) {
	if !principal.IsPatient() {
		return nil, apperrors.ErrPatientOnly
	}

	reading, err := ValidateReading(raw)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if measuredAt != nil {
		if err := s.checkMeasuredAt(*measuredAt); err != nil {
			return nil, err
		}
		at = measuredAt.UTC()
	}

	record, err := s.records.InsertGlucoseRecord(ctx, &models.GlucoseRecord{
		UserID:       principal.UserID,
		GlucoseLevel: reading.GlucoseLevel,
		InsulinUnits: reading.InsulinUnits,
		HbA1c:        reading.HbA1c,
		Note:         reading.Note,
		CreatedAt:    at,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("glucose record stored", "user_id", principal.UserID, "record_id", record.ID)
	return record, nil
}

// ListRecords returns targetUserID's records within period, newest first.
func (s *GlucoseService) ListRecords(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period Period) ([]models.GlucoseRecord, error) {
	if err := s.access.Authorize(ctx, principal, targetUserID); err != nil {
		return nil, err
	}
	return s.records.QueryGlucoseRecords(ctx, targetUserID, period.Since(s.now().UTC()))
}

// UpdateRecord edits the measurement time or insulin of the caller's own record.
func (s *GlucoseService) UpdateRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID, upd RecordUpdate) (*models.GlucoseRecord, error) {
	record, err := s.ownedRecord(ctx, principal, recordID)
	if err != nil {
		return nil, err
	}

	var fields repository.GlucoseRecordUpdate
	if upd.MeasuredAt != nil {
		if err := s.checkMeasuredAt(*upd.MeasuredAt); err != nil {
			return nil, err
		}
		fields.MeasuredAt = upd.MeasuredAt
	}
	if upd.InsulinUnits != nil {
		insulin, err := ValidateInsulin(upd.InsulinUnits)
		if err != nil {
			return nil, err
		}
		if insulin == nil {
			fields.ClearInsulin = true
		} else {
			fields.InsulinUnits = insulin
		}
	}
	if fields.Empty() {
		return record, nil
	}

	updated, err := s.records.UpdateGlucoseRecord(ctx, recordID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrRecordNotFound
	}
	return updated, err
}

// DeleteRecord removes the caller's own record.
func (s *GlucoseService) DeleteRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID) error {
	if _, err := s.ownedRecord(ctx, principal, recordID); err != nil {
		return err
	}
	err := s.records.DeleteGlucoseRecord(ctx, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrRecordNotFound
	}
	return err
}

func (s *GlucoseService) ownedRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID) (*models.GlucoseRecord, error) {
	record, err := s.records.FindGlucoseRecord(ctx, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if record.UserID != principal.UserID {
		logger.Security().WarnContext(ctx, "access denied",
			"user_id", principal.UserID,
			"role", principal.Role,
			"record_id", recordID,
			"reason", "record owned by another user",
		)
		return nil, apperrors.ErrAccessDenied
	}
	return record, nil
}

func (s *GlucoseService) checkMeasuredAt(at time.Time) error {
	if at.IsZero() || at.After(s.now().Add(maxClockSkew)) {
		return apperrors.ErrInvalidTimestamp
	}
	return nil
}
