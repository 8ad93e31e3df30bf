package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/donations"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

// durableManager reports a durable store while keeping rows in memory.
type durableManager struct {
	*repomanager.MemoryRepositoryManager
}

func (durableManager) Durable() bool { return true }

// brokenDonations fails every call with err.
type brokenDonations struct{ err error }

func (b brokenDonations) Create(context.Context, *models.Donation) (*models.Donation, error) {
	return nil, b.err
}
func (b brokenDonations) List(context.Context) ([]*models.Donation, error) { return nil, b.err }
func (b brokenDonations) Find(context.Context, int64) (*models.Donation, error) {
	return nil, b.err
}
func (b brokenDonations) Update(context.Context, int64, models.DonationPatch) (*models.Donation, error) {
	return nil, b.err
}

type brokenManager struct {
	*repomanager.MemoryRepositoryManager
}

func (brokenManager) Donations() donations.Repository {
	return brokenDonations{err: errors.New("connection reset")}
}
func (brokenManager) Durable() bool { return true }

type stubChecker struct {
	ok  bool
	err error
}

func (s stubChecker) Confirmed(context.Context, string) (bool, error) { return s.ok, s.err }
