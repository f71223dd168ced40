package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(All()...))
	return db
}

func TestProfileKindRoundTrip(t *testing.T) {
	dt := DiabetesType1
	patient := NewProfile(uuid.New(), "Ana", PatientKind{DiabetesType: &dt})
	assert.Equal(t, RolePatient, patient.Role)
	require.IsType(t, PatientKind{}, patient.Kind())
	assert.Equal(t, DiabetesType1, *patient.Kind().(PatientKind).DiabetesType)

	guardian := NewProfile(uuid.New(), "Bruno", GuardianKind{})
	assert.Equal(t, RoleGuardian, guardian.Role)
	assert.Nil(t, guardian.DiabetesType)
	assert.IsType(t, GuardianKind{}, guardian.Kind())
}

func TestGuardianProfileRejectsDiabetesType(t *testing.T) {
	db := setupTestDB(t)
	dt := DiabetesType2
	p := &Profile{UserID: uuid.New(), Role: RoleGuardian, FullName: "G", DiabetesType: &dt}

	err := db.Create(p).Error
	assert.ErrorIs(t, err, ErrGuardianDiabetesType)
}

func TestGuardianProfileRejectsInvitationCode(t *testing.T) {
	db := setupTestDB(t)
	code := "ABCD1234"
	p := &Profile{UserID: uuid.New(), Role: RoleGuardian, FullName: "G", InvitationCode: &code}

	assert.ErrorIs(t, db.Create(p).Error, ErrGuardianInvitationCode)
}

func TestInvitationCodeUniqueButNullable(t *testing.T) {
	db := setupTestDB(t)

	// Several profiles without a code are fine.
	require.NoError(t, db.Create(NewProfile(uuid.New(), "A", PatientKind{})).Error)
	require.NoError(t, db.Create(NewProfile(uuid.New(), "B", PatientKind{})).Error)

	code := "ZZZZ9999"
	first := NewProfile(uuid.New(), "C", PatientKind{})
	first.InvitationCode = &code
	require.NoError(t, db.Create(first).Error)

	second := NewProfile(uuid.New(), "D", PatientKind{})
	second.InvitationCode = &code
	assert.Error(t, db.Create(second).Error)
}

func TestLinkPairUnique(t *testing.T) {
	db := setupTestDB(t)
	g, p := uuid.New(), uuid.New()

	require.NoError(t, db.Create(&GuardianPatientLink{GuardianID: g, PatientID: p}).Error)
	assert.Error(t, db.Create(&GuardianPatientLink{GuardianID: g, PatientID: p}).Error)
	assert.NoError(t, db.Create(&GuardianPatientLink{GuardianID: uuid.New(), PatientID: p}).Error)
}

func TestGlucoseRecordKeepsMeasuredAt(t *testing.T) {
	db := setupTestDB(t)
	measured := time.Date(2024, 3, 10, 8, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	r := &GlucoseRecord{UserID: uuid.New(), GlucoseLevel: 110, CreatedAt: measured}
	require.NoError(t, db.Create(r).Error)

	var loaded GlucoseRecord
	require.NoError(t, db.First(&loaded, "id = ?", r.ID).Error)
	assert.True(t, loaded.CreatedAt.Equal(measured))
	assert.Nil(t, loaded.InsulinUnits)
	assert.Nil(t, loaded.Note)
}
