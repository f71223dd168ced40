package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/testhelpers"
	"github.com/pageza/glucolink/backend/internal/types"
)

func setupStore(t *testing.T) (*gorm.DB, *repository.GormStore) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return db, repository.NewGormStore(db)
}

func principalOf(p *models.Profile) types.Principal {
	return types.Principal{UserID: p.UserID, Role: p.Role}
}

// sequence returns a generator yielding codes in order.
func sequence(codes ...string) service.CodeGenerator {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

// staleLinkStore never sees existing links, as when two redemptions race
// past the existence check.
type staleLinkStore struct {
	*repository.GormStore
}

func (staleLinkStore) FindLink(context.Context, uuid.UUID, uuid.UUID) (*models.GuardianPatientLink, error) {
	return nil, repository.ErrNotFound
}
