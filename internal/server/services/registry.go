package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geoledger/internal/server/schema"
)

// RegistryService manages NGOs and their projects.
type RegistryService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewRegistryService(m repomanager.RepositoryManager, now func() time.Time) *RegistryService {
	return &RegistryService{repomanager: m, now: now}
}

// CreateNGO registers an NGO awaiting review.
func (s *RegistryService) CreateNGO(ctx context.Context, in schema.NGOInput) (*models.NGO, error) {
	n, err := s.repomanager.NGOs().Create(ctx, &models.NGO{
		Name:               in.Name,
		WalletAddress:      in.WalletAddress,
		Sector:             in.Sector,
		VerificationStatus: models.NGOPending,
		CreatedAt:          s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ngo: %w", err)
	}
	return n, nil
}

func (s *RegistryService) ListNGOs(ctx context.Context) ([]*models.NGO, error) {
	list, err := s.repomanager.NGOs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing ngos: %w", err)
	}
	return list, nil
}

// SetNGOVerification records an administrative review outcome.
func (s *RegistryService) SetNGOVerification(ctx context.Context, id int64, verified bool) (*models.NGO, error) {
	status := models.NGORejected
	if verified {
		status = models.NGOVerified
	}

	n, err := s.repomanager.NGOs().SetVerification(ctx, id, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating ngo %d: %w", id, err)
	}
	return n, nil
}

func (s *RegistryService) CreateProject(ctx context.Context, in schema.ProjectInput) (*models.Project, error) {
	p, err := s.repomanager.Projects().Create(ctx, &models.Project{
		Name:        in.Name,
		NGOID:       in.NGOID,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return p, nil
}

func (s *RegistryService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	list, err := s.repomanager.Projects().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return list, nil
}
