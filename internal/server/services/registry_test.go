package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geoledger/internal/server/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryService_NGOLifecycle(t *testing.T) {
	s := NewRegistryService(repomanager.NewMemoryRepositoryManager(false), clock)
	ctx := context.Background()

	n, err := s.CreateNGO(ctx, schema.NGOInput{Name: "Reef Watch", WalletAddress: "GREEF", Sector: ptr("Environment")})
	require.NoError(t, err)
	assert.Equal(t, models.NGOPending, n.VerificationStatus)

	v, err := s.SetNGOVerification(ctx, n.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.NGOVerified, v.VerificationStatus)

	r, err := s.SetNGOVerification(ctx, n.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.NGORejected, r.VerificationStatus)

	list, err := s.ListNGOs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.SetNGOVerification(ctx, 42, true)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRegistryService_Projects(t *testing.T) {
	tick := fixedNow
	now := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	s := NewRegistryService(repomanager.NewMemoryRepositoryManager(false), now)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, schema.ProjectInput{Name: "Wells", NGOID: 5})
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, schema.ProjectInput{Name: "Pumps", NGOID: 5, Latitude: ptr(13.08)})
	require.NoError(t, err)
	assert.Equal(t, 13.08, *p.Latitude)

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pumps", list[0].Name)
}
