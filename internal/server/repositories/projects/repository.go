// Package projects persists NGO projects.
package projects

import (
	"context"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	// List returns all projects, most recently created first.
	List(ctx context.Context) ([]*models.Project, error)
	Find(ctx context.Context, id int64) (*models.Project, error)
}
