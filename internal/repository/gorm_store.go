package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/models"
)

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps driver errors onto the package sentinels. Anything else is
// wrapped as a database failure.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return ErrDuplicate
	default:
		return apperrors.NewDatabaseError(err)
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for connections opened without TranslateError.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func (s *GormStore) CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	}))
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) FindProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("full_name ASC").Find(&profiles).Error; err != nil {
		return nil, translate(err)
	}
	return profiles, nil
}

func (s *GormStore) FindProfileByInvitationCode(ctx context.Context, code string, role models.Role) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).
		Where("invitation_code = ? AND role = ?", code, role).
		First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) UpdateProfileInvitationCode(ctx context.Context, userID uuid.UUID, code string) (*models.Profile, error) {
	return s.updateProfileColumn(ctx, userID, "invitation_code", code)
}

func (s *GormStore) UpdateProfileFullName(ctx context.Context, userID uuid.UUID, fullName string) (*models.Profile, error) {
	return s.updateProfileColumn(ctx, userID, "full_name", fullName)
}

func (s *GormStore) updateProfileColumn(ctx context.Context, userID uuid.UUID, column string, value interface{}) (*models.Profile, error) {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Update(column, value)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindProfileByUserID(ctx, userID)
}

func (s *GormStore) RecordProfileChange(ctx context.Context, change *models.ProfileHistory) error {
	return translate(s.db.WithContext(ctx).Create(change).Error)
}

func (s *GormStore) ListProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error) {
	var history []models.ProfileHistory
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("changed_at DESC").Find(&history).Error; err != nil {
		return nil, translate(err)
	}
	return history, nil
}

func (s *GormStore) FindLink(ctx context.Context, guardianID, patientID uuid.UUID) (*models.GuardianPatientLink, error) {
	var link models.GuardianPatientLink
	err := s.db.WithContext(ctx).
		Where("guardian_id = ? AND patient_id = ?", guardianID, patientID).
		First(&link).Error
	if err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

func (s *GormStore) InsertLink(ctx context.Context, guardianID, patientID uuid.UUID) (*models.GuardianPatientLink, error) {
	link := &models.GuardianPatientLink{GuardianID: guardianID, PatientID: patientID}
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, translate(err)
	}
	return link, nil
}

func (s *GormStore) DeleteLink(ctx context.Context, guardianID, patientID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("guardian_id = ? AND patient_id = ?", guardianID, patientID).
		Delete(&models.GuardianPatientLink{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListLinksByGuardian(ctx context.Context, guardianID uuid.UUID) ([]models.GuardianPatientLink, error) {
	var links []models.GuardianPatientLink
	if err := s.db.WithContext(ctx).Where("guardian_id = ?", guardianID).Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, translate(err)
	}
	return links, nil
}

func (s *GormStore) ListLinksByPatient(ctx context.Context, patientID uuid.UUID) ([]models.GuardianPatientLink, error) {
	var links []models.GuardianPatientLink
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, translate(err)
	}
	return links, nil
}

func (s *GormStore) InsertGlucoseRecord(ctx context.Context, record *models.GlucoseRecord) (*models.GlucoseRecord, error) {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, translate(err)
	}
	return record, nil
}

func (s *GormStore) QueryGlucoseRecords(ctx context.Context, userID uuid.UUID, since *time.Time) ([]models.GlucoseRecord, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}
	var records []models.GlucoseRecord
	if err := q.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, translate(err)
	}
	return records, nil
}

func (s *GormStore) FindGlucoseRecord(ctx context.Context, recordID uuid.UUID) (*models.GlucoseRecord, error) {
	var record models.GlucoseRecord
	if err := s.db.WithContext(ctx).Where("id = ?", recordID).First(&record).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (s *GormStore) UpdateGlucoseRecord(ctx context.Context, recordID uuid.UUID, fields GlucoseRecordUpdate) (*models.GlucoseRecord, error) {
	updates := map[string]interface{}{}
	if fields.MeasuredAt != nil {
		updates["created_at"] = fields.MeasuredAt.UTC()
	}
	switch {
	case fields.ClearInsulin:
		updates["insulin_units"] = nil
	case fields.InsulinUnits != nil:
		updates["insulin_units"] = *fields.InsulinUnits
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.GlucoseRecord{}).Where("id = ?", recordID).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindGlucoseRecord(ctx, recordID)
}

func (s *GormStore) DeleteGlucoseRecord(ctx context.Context, recordID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", recordID).Delete(&models.GlucoseRecord{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
