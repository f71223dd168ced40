package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/testhelpers"
	"github.com/pageza/glucolink/backend/internal/types"
)

// Patient generates ABC12345 and a guardian redeems it in lowercase.
func TestLinkByCodeScenarioLowercaseRedemption(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "Maria Silva")
	guardian := testhelpers.CreateGuardian(t, db, "João Silva")

	profiles := service.NewProfileService(store, sequence("ABC12345"))
	code, err := profiles.RegenerateInvitationCode(ctx, principalOf(patient))
	require.NoError(t, err)
	require.Equal(t, "ABC12345", code)

	links := service.NewLinkService(store, store)
	summary, err := links.LinkByCode(ctx, principalOf(guardian), "abc12345")
	require.NoError(t, err)
	assert.Equal(t, patient.UserID, summary.UserID)
	assert.Equal(t, "Maria Silva", summary.FullName)

	link, err := store.FindLink(ctx, guardian.UserID, patient.UserID)
	require.NoError(t, err)
	assert.Equal(t, guardian.UserID, link.GuardianID)
}

// After regeneration the old code no longer resolves.
func TestLinkByCodeScenarioRegeneratedCode(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "Maria Silva")
	g2 := testhelpers.CreateGuardian(t, db, "Second Guardian")

	profiles := service.NewProfileService(store, sequence("ABC12345", "XYZ98765"))
	_, err := profiles.RegenerateInvitationCode(ctx, principalOf(patient))
	require.NoError(t, err)
	code, err := profiles.RegenerateInvitationCode(ctx, principalOf(patient))
	require.NoError(t, err)
	require.Equal(t, "XYZ98765", code)

	links := service.NewLinkService(store, store)
	_, err = links.LinkByCode(ctx, principalOf(g2), "ABC12345")
	assert.ErrorIs(t, err, apperrors.ErrCodeNotFound)

	_, err = links.LinkByCode(ctx, principalOf(g2), "xyz98765")
	assert.NoError(t, err)
}

func TestLinkByCodeTwiceFailsAlreadyLinked(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "P")
	guardian := testhelpers.CreateGuardian(t, db, "G")
	testhelpers.SetInvitationCode(t, db, patient, "QWERTY12")

	links := service.NewLinkService(store, store)
	_, err := links.LinkByCode(ctx, principalOf(guardian), "QWERTY12")
	require.NoError(t, err)
	_, err = links.LinkByCode(ctx, principalOf(guardian), "QWERTY12")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLinked)
}

func TestLinkByCodeInsertConflictMapsToAlreadyLinked(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "P")
	guardian := testhelpers.CreateGuardian(t, db, "G")
	testhelpers.SetInvitationCode(t, db, patient, "RACE0001")
	testhelpers.Link(t, db, guardian, patient)

	links := service.NewLinkService(store, staleLinkStore{store})
	_, err := links.LinkByCode(ctx, principalOf(guardian), "RACE0001")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLinked)
}

func TestLinkByCodeRejections(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "P")
	guardian := testhelpers.CreateGuardian(t, db, "G")
	testhelpers.SetInvitationCode(t, db, patient, "SELF0001")
	links := service.NewLinkService(store, store)

	_, err := links.LinkByCode(ctx, principalOf(guardian), "short")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCodeFormat)

	_, err = links.LinkByCode(ctx, principalOf(guardian), "NOPE0000")
	assert.ErrorIs(t, err, apperrors.ErrCodeNotFound)

	_, err = links.LinkByCode(ctx, principalOf(patient), "SELF0001")
	assert.ErrorIs(t, err, apperrors.ErrGuardianOnly)

	// A guardian principal carrying the patient's own id.
	self := types.Principal{UserID: patient.UserID, Role: models.RoleGuardian}
	_, err = links.LinkByCode(ctx, self, "SELF0001")
	assert.ErrorIs(t, err, apperrors.ErrSelfLinkNotAllowed)
}

func TestUnlinkFromEitherSide(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "P")
	guardian := testhelpers.CreateGuardian(t, db, "G")
	testhelpers.SetInvitationCode(t, db, patient, "UNLINK01")
	links := service.NewLinkService(store, store)

	testhelpers.Link(t, db, guardian, patient)
	require.NoError(t, links.Unlink(ctx, principalOf(guardian), patient.UserID))
	assert.ErrorIs(t, links.Unlink(ctx, principalOf(guardian), patient.UserID), apperrors.ErrLinkNotFound)

	// Re-linking after unlink is allowed.
	_, err := links.LinkByCode(ctx, principalOf(guardian), "UNLINK01")
	require.NoError(t, err)
	require.NoError(t, links.Unlink(ctx, principalOf(patient), guardian.UserID))

	_, err = store.FindLink(ctx, guardian.UserID, patient.UserID)
	assert.Error(t, err)
}

func TestListPatientsAndGuardians(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	p1 := testhelpers.CreatePatient(t, db, "Ana")
	p2 := testhelpers.CreatePatient(t, db, "Bruno")
	g1 := testhelpers.CreateGuardian(t, db, "Carla")
	g2 := testhelpers.CreateGuardian(t, db, "Davi")
	testhelpers.Link(t, db, g1, p1)
	testhelpers.Link(t, db, g1, p2)
	testhelpers.Link(t, db, g2, p1)
	links := service.NewLinkService(store, store)

	patients, err := links.ListPatients(ctx, principalOf(g1))
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "Ana", patients[0].FullName)
	assert.Equal(t, "Bruno", patients[1].FullName)
	require.NotNil(t, patients[0].DiabetesType)
	assert.Equal(t, models.DiabetesType1, *patients[0].DiabetesType)
	assert.False(t, patients[0].LinkedAt.IsZero())

	guardians, err := links.ListGuardians(ctx, principalOf(p1))
	require.NoError(t, err)
	assert.Len(t, guardians, 2)

	_, err = links.ListPatients(ctx, principalOf(p1))
	assert.ErrorIs(t, err, apperrors.ErrGuardianOnly)
	_, err = links.ListGuardians(ctx, principalOf(g1))
	assert.ErrorIs(t, err, apperrors.ErrPatientOnly)

	none, err := links.ListPatients(ctx, types.Principal{UserID: uuid.New(), Role: models.RoleGuardian})
	require.NoError(t, err)
	assert.Empty(t, none)
}
