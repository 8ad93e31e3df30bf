// Package ngos persists registered NGOs.
package ngos

import (
	"context"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.NGO) (*models.NGO, error)
	// List returns the publicly listed NGOs (pending or verified), highest
	// id first.
	List(ctx context.Context) ([]*models.NGO, error)
	Find(ctx context.Context, id int64) (*models.NGO, error)
	// SetVerification records the outcome of an administrative review.
	SetVerification(ctx context.Context, id int64, status models.VerificationStatus) (*models.NGO, error)
}
