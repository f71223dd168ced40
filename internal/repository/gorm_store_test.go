package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/testhelpers"
)

func TestCreateAccountAndLookup(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	user := &models.User{Email: "ana@example.com", PasswordHash: "x"}
	profile := models.NewProfile(uuid.Nil, "Ana", models.PatientKind{})
	require.NoError(t, store.CreateAccount(ctx, user, profile))
	assert.Equal(t, user.ID, profile.UserID)

	found, err := store.FindUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	p, err := store.FindProfileByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FullName)

	dup := &models.User{Email: "ana@example.com", PasswordHash: "x"}
	err = store.CreateAccount(ctx, dup, models.NewProfile(uuid.Nil, "Ana 2", models.GuardianKind{}))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFindProfileMissing(t *testing.T) {
	store := NewGormStore(testhelpers.SetupTestDB(t))
	_, err := store.FindProfileByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvitationCodeLookupFiltersRoleAndFollowsRegeneration(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	patient := testhelpers.CreatePatient(t, db, "Paula")

	_, err := store.UpdateProfileInvitationCode(ctx, patient.UserID, "ABC12345")
	require.NoError(t, err)

	p, err := store.FindProfileByInvitationCode(ctx, "ABC12345", models.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, patient.UserID, p.UserID)

	_, err = store.FindProfileByInvitationCode(ctx, "ABC12345", models.RoleGuardian)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := store.UpdateProfileInvitationCode(ctx, patient.UserID, "XYZ98765")
	require.NoError(t, err)
	assert.Equal(t, "XYZ98765", *updated.InvitationCode)

	_, err = store.FindProfileByInvitationCode(ctx, "ABC12345", models.RolePatient)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateInvitationCodeCollision(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	a := testhelpers.CreatePatient(t, db, "A")
	b := testhelpers.CreatePatient(t, db, "B")

	_, err := store.UpdateProfileInvitationCode(ctx, a.UserID, "SAME0001")
	require.NoError(t, err)
	_, err = store.UpdateProfileInvitationCode(ctx, b.UserID, "SAME0001")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUpdateProfileMissing(t *testing.T) {
	store := NewGormStore(testhelpers.SetupTestDB(t))
	_, err := store.UpdateProfileFullName(context.Background(), uuid.New(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinkLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	g := testhelpers.CreateGuardian(t, db, "G")
	p := testhelpers.CreatePatient(t, db, "P")

	_, err := store.FindLink(ctx, g.UserID, p.UserID)
	assert.ErrorIs(t, err, ErrNotFound)

	link, err := store.InsertLink(ctx, g.UserID, p.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, link.ID)

	_, err = store.InsertLink(ctx, g.UserID, p.UserID)
	assert.ErrorIs(t, err, ErrDuplicate)

	byGuardian, err := store.ListLinksByGuardian(ctx, g.UserID)
	require.NoError(t, err)
	assert.Len(t, byGuardian, 1)

	byPatient, err := store.ListLinksByPatient(ctx, p.UserID)
	require.NoError(t, err)
	assert.Len(t, byPatient, 1)

	require.NoError(t, store.DeleteLink(ctx, g.UserID, p.UserID))
	assert.ErrorIs(t, store.DeleteLink(ctx, g.UserID, p.UserID), ErrNotFound)

	_, err = store.InsertLink(ctx, g.UserID, p.UserID)
	assert.NoError(t, err, "re-linking after unlink is allowed")
}

func TestGlucoseRecordsNewestFirstAndSince(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "P")
	other := testhelpers.CreatePatient(t, db, "Other")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	testhelpers.AddReading(t, db, p, 100, nil, base)
	testhelpers.AddReading(t, db, p, 150, nil, base.Add(48*time.Hour))
	testhelpers.AddReading(t, db, p, 120, nil, base.Add(24*time.Hour))
	testhelpers.AddReading(t, db, other, 300, nil, base)

	all, err := store.QueryGlucoseRecords(ctx, p.UserID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{150, 120, 100}, []int{all[0].GlucoseLevel, all[1].GlucoseLevel, all[2].GlucoseLevel})

	since := base.Add(24 * time.Hour)
	recent, err := store.QueryGlucoseRecords(ctx, p.UserID, &since)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestUpdateAndDeleteGlucoseRecord(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "P")
	r := testhelpers.AddReading(t, db, p, 100, testhelpers.Float(2), time.Now().UTC())

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated, err := store.UpdateGlucoseRecord(ctx, r.ID, GlucoseRecordUpdate{MeasuredAt: &at, InsulinUnits: testhelpers.Float(6.5)})
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(at))
	assert.Equal(t, 6.5, *updated.InsulinUnits)

	cleared, err := store.UpdateGlucoseRecord(ctx, r.ID, GlucoseRecordUpdate{ClearInsulin: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.InsulinUnits)

	_, err = store.UpdateGlucoseRecord(ctx, uuid.New(), GlucoseRecordUpdate{ClearInsulin: true})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.DeleteGlucoseRecord(ctx, r.ID))
	assert.ErrorIs(t, store.DeleteGlucoseRecord(ctx, r.ID), ErrNotFound)
	_, err = store.FindGlucoseRecord(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileHistoryNewestFirst(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "P")
	base := time.Now().UTC()

	require.NoError(t, store.RecordProfileChange(ctx, &models.ProfileHistory{UserID: p.UserID, Field: "full_name", OldValue: "a", NewValue: "b", ChangedBy: p.UserID, ChangedAt: base}))
	require.NoError(t, store.RecordProfileChange(ctx, &models.ProfileHistory{UserID: p.UserID, Field: "full_name", OldValue: "b", NewValue: "c", ChangedBy: p.UserID, ChangedAt: base.Add(time.Minute)}))

	history, err := store.ListProfileHistory(ctx, p.UserID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].NewValue)
}

func TestFindProfilesByUserIDs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := NewGormStore(db)
	a := testhelpers.CreatePatient(t, db, "Beatriz")
	b := testhelpers.CreatePatient(t, db, "Alice")
	testhelpers.CreatePatient(t, db, "Ignored")

	profiles, err := store.FindProfilesByUserIDs(context.Background(), []uuid.UUID{a.UserID, b.UserID})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Alice", profiles[0].FullName)

	none, err := store.FindProfilesByUserIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
