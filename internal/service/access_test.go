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

func TestResolveReadableUserIDsPatient(t *testing.T) {
	db, store := setupStore(t)
	patient := testhelpers.CreatePatient(t, db, "P")
	resolver := service.NewAccessResolver(store)

	ids, err := resolver.ResolveReadableUserIDs(context.Background(), principalOf(patient))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{patient.UserID}, ids)
}

func TestResolveReadableUserIDsGuardianWithoutLinks(t *testing.T) {
	db, store := setupStore(t)
	guardian := testhelpers.CreateGuardian(t, db, "G")
	resolver := service.NewAccessResolver(store)

	ids, err := resolver.ResolveReadableUserIDs(context.Background(), principalOf(guardian))
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotContains(t, ids, guardian.UserID)
}

func TestResolveReadableUserIDsUnknownRole(t *testing.T) {
	_, store := setupStore(t)
	resolver := service.NewAccessResolver(store)

	_, err := resolver.ResolveReadableUserIDs(context.Background(), types.Principal{UserID: uuid.New(), Role: models.Role("admin")})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

// Guardian linked only to P reads P and is denied on an unlinked patient.
func TestAccessScenarioLinkedGuardian(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "P")
	other := testhelpers.CreatePatient(t, db, "Other")
	g := testhelpers.CreateGuardian(t, db, "G")
	testhelpers.Link(t, db, g, p)
	testhelpers.AddReading(t, db, other, 150, nil, testhelpers.HoursAgo(1))

	resolver := service.NewAccessResolver(store)
	ids, err := resolver.ResolveReadableUserIDs(ctx, principalOf(g))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p.UserID}, ids)

	glucose := service.NewGlucoseService(store, resolver)
	_, err = glucose.ListRecords(ctx, principalOf(g), other.UserID, service.PeriodAll)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	records, err := glucose.ListRecords(ctx, principalOf(g), p.UserID, service.PeriodAll)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAuthorizePatientOnlySelf(t *testing.T) {
	db, store := setupStore(t)
	p := testhelpers.CreatePatient(t, db, "P")
	other := testhelpers.CreatePatient(t, db, "Other")
	resolver := service.NewAccessResolver(store)

	assert.NoError(t, resolver.Authorize(context.Background(), principalOf(p), p.UserID))
	assert.ErrorIs(t, resolver.Authorize(context.Background(), principalOf(p), other.UserID), apperrors.ErrAccessDenied)
}
