package donations

import (
	"context"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/store"
)

func donationID(d *models.Donation) int64        { return d.ID }
func setDonationID(d *models.Donation, id int64) { d.ID = id }

// MemoryRepository keeps donations in a process-local table.
type MemoryRepository struct {
	table *store.Table[models.Donation]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{table: store.NewTable(donationID, setDonationID)}
}

func (r *MemoryRepository) Create(_ context.Context, d *models.Donation) (*models.Donation, error) {
	created := r.table.Create(*d)
	return &created, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Donation, error) {
	rows := r.table.List(nil, store.ByIDDesc(donationID))
	result := make([]*models.Donation, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (r *MemoryRepository) Find(_ context.Context, id int64) (*models.Donation, error) {
	d, err := r.table.Find(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, patch models.DonationPatch) (*models.Donation, error) {
	d, err := r.table.Update(id, func(d *models.Donation) error {
		if patch.UnlessStatus != nil && d.Status == *patch.UnlessStatus {
			return common.ErrInvalidTransition
		}
		patch.Apply(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
