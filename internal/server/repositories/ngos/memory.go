package ngos

import (
	"context"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/store"
)

func ngoID(n *models.NGO) int64        { return n.ID }
func setNGOID(n *models.NGO, id int64) { n.ID = id }

type MemoryRepository struct {
	table *store.Table[models.NGO]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{table: store.NewTable(ngoID, setNGOID)}
}

// Seed loads fixture rows keeping their ids.
func (r *MemoryRepository) Seed(rows ...models.NGO) {
	for _, n := range rows {
		r.table.Seed(n)
	}
}

func (r *MemoryRepository) Create(_ context.Context, n *models.NGO) (*models.NGO, error) {
	created := r.table.Create(*n)
	return &created, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.NGO, error) {
	rows := r.table.List((*models.NGO).Listed, store.ByIDDesc(ngoID))
	result := make([]*models.NGO, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (r *MemoryRepository) Find(_ context.Context, id int64) (*models.NGO, error) {
	n, err := r.table.Find(id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *MemoryRepository) SetVerification(_ context.Context, id int64, status models.VerificationStatus) (*models.NGO, error) {
	n, err := r.table.Update(id, func(n *models.NGO) error {
		n.VerificationStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}
