package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/internal/models"
)

// TestPassword is the plain-text password of every fixture account.
const TestPassword = "testpassword123"

var fixtureHash string

func passwordHash(t *testing.T) string {
	t.Helper()
	if fixtureHash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		fixtureHash = string(h)
	}
	return fixtureHash
}

func createAccount(t *testing.T, db *gorm.DB, fullName string, kind models.ProfileKind) *models.Profile {
	t.Helper()
	user := &models.User{
		Email:        strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "." + uuid.NewString()[:8] + "@example.com",
		PasswordHash: passwordHash(t),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	profile := models.NewProfile(user.ID, fullName, kind)
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

// CreatePatient inserts a patient account.
func CreatePatient(t *testing.T, db *gorm.DB, fullName string) *models.Profile {
	dt := models.DiabetesType1
	return createAccount(t, db, fullName, models.PatientKind{DiabetesType: &dt})
}

// CreateGuardian inserts a guardian account.
func CreateGuardian(t *testing.T, db *gorm.DB, fullName string) *models.Profile {
	return createAccount(t, db, fullName, models.GuardianKind{})
}

// SetInvitationCode stores code on a patient profile.
func SetInvitationCode(t *testing.T, db *gorm.DB, patient *models.Profile, code string) {
	t.Helper()
	if err := db.Model(&models.Profile{}).Where("user_id = ?", patient.UserID).Update("invitation_code", code).Error; err != nil {
		t.Fatalf("failed to set invitation code: %v", err)
	}
	patient.InvitationCode = &code
}

// Link inserts a guardian–patient link directly.
func Link(t *testing.T, db *gorm.DB, guardian, patient *models.Profile) {
	t.Helper()
	link := &models.GuardianPatientLink{GuardianID: guardian.UserID, PatientID: patient.UserID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create link: %v", err)
	}
}

// AddReading inserts a reading measured at the given time.
func AddReading(t *testing.T, db *gorm.DB, patient *models.Profile, level int, insulin *float64, at time.Time) *models.GlucoseRecord {
	t.Helper()
	r := &models.GlucoseRecord{UserID: patient.UserID, GlucoseLevel: level, InsulinUnits: insulin, CreatedAt: at}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create reading: %v", err)
	}
	return r
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// String returns a pointer to s.
func String(s string) *string { return &s }

// HoursAgo returns the UTC time h hours before now.
func HoursAgo(h int) time.Time {
	return time.Now().UTC().Add(-time.Duration(h) * time.Hour)
}
