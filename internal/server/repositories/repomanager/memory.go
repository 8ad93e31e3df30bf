package repomanager

import (
	"context"

	"github.com/dmitrijs2005/geoledger/internal/server/repositories/donations"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/ngos"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/projects"
	"github.com/dmitrijs2005/geoledger/internal/server/seed"
)

// MemoryRepositoryManager keeps every entity in process memory.
type MemoryRepositoryManager struct {
	donations *donations.MemoryRepository
	ngos      *ngos.MemoryRepository
	projects  *projects.MemoryRepository
}

func NewMemoryRepositoryManager(seedDemo bool) *MemoryRepositoryManager {
	m := &MemoryRepositoryManager{
		donations: donations.NewMemoryRepository(),
		ngos:      ngos.NewMemoryRepository(),
		projects:  projects.NewMemoryRepository(),
	}
	if seedDemo {
		m.ngos.Seed(seed.DemoNGOs()...)
	}
	return m
}

func (m *MemoryRepositoryManager) Donations() donations.Repository { return m.donations }
func (m *MemoryRepositoryManager) NGOs() ngos.Repository           { return m.ngos }
func (m *MemoryRepositoryManager) Projects() projects.Repository   { return m.projects }
func (m *MemoryRepositoryManager) Durable() bool                   { return false }

// RunMigrations is a no-op; there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }
