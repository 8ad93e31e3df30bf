package ngos

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ListHidesRejected(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a, err := r.Create(ctx, &models.NGO{Name: "A", WalletAddress: "GA", VerificationStatus: models.NGOPending})
	require.NoError(t, err)
	b, err := r.Create(ctx, &models.NGO{Name: "B", WalletAddress: "GB", VerificationStatus: models.NGOPending})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.NGO{Name: "C", WalletAddress: "GC", VerificationStatus: models.NGOPending})
	require.NoError(t, err)

	_, err = r.SetVerification(ctx, a.ID, models.NGOVerified)
	require.NoError(t, err)
	_, err = r.SetVerification(ctx, b.ID, models.NGORejected)
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "A", list[1].Name)
	assert.Equal(t, models.NGOVerified, list[1].VerificationStatus)
}

func TestMemoryRepository_SeedKeepsIDs(t *testing.T) {
	r := NewMemoryRepository()
	r.Seed(models.NGO{ID: 4, Name: "four", VerificationStatus: models.NGOVerified})

	created, err := r.Create(context.Background(), &models.NGO{Name: "next"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}

func TestMemoryRepository_SetVerificationUnknown(t *testing.T) {
	r := NewMemoryRepository()
	_, err := r.SetVerification(context.Background(), 1, models.NGOVerified)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
