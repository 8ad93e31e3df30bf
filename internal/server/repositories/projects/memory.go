package projects

import (
	"cmp"
	"context"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/store"
)

func projectID(p *models.Project) int64        { return p.ID }
func setProjectID(p *models.Project, id int64) { p.ID = id }

// newestFirst orders by created_at descending, breaking ties by id.
func newestFirst(a, b *models.Project) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

type MemoryRepository struct {
	table *store.Table[models.Project]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{table: store.NewTable(projectID, setProjectID)}
}

func (r *MemoryRepository) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	created := r.table.Create(*p)
	return &created, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Project, error) {
	rows := r.table.List(nil, newestFirst)
	result := make([]*models.Project, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (r *MemoryRepository) Find(_ context.Context, id int64) (*models.Project, error) {
	p, err := r.table.Find(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
