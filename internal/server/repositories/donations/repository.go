// Package donations persists donation records. Two implementations share
// the Repository contract: a SQL one (Postgres or SQLite) and a
// process-local one backed by store.Table.
package donations

import (
	"context"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
)

type Repository interface {
	// Create stores d, assigning its id, and returns the stored record.
	Create(ctx context.Context, d *models.Donation) (*models.Donation, error)
	// List returns all donations, highest id first.
	List(ctx context.Context) ([]*models.Donation, error)
	// Find returns the donation or common.ErrorNotFound.
	Find(ctx context.Context, id int64) (*models.Donation, error)
	// Update applies patch atomically. It returns common.ErrorNotFound for
	// an unknown id and common.ErrInvalidTransition when patch.UnlessStatus
	// matches the stored status.
	Update(ctx context.Context, id int64, patch models.DonationPatch) (*models.Donation, error)
}
