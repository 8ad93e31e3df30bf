package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/geoledger/internal/server/metrics"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Finding kinds reported by a reconciliation sweep.
const (
	FindingMissingCreateTx = "missing-create-tx"
	FindingMissingVerifyTx = "missing-verify-tx"
	FindingUnconfirmedTx   = "unconfirmed-tx"
)

type Finding struct {
	DonationID int64  `json:"donation_id"`
	Kind       string `json:"kind"`
}

type ReconciliationReport struct {
	RunID    string    `json:"run_id"`
	Checked  int       `json:"checked"`
	Findings []Finding `json:"findings"`
}

// ReconciliationService lists donations whose stored state and ledger
// references disagree. It reports only; nothing is corrected.
type ReconciliationService struct {
	repomanager repomanager.RepositoryManager
}

func NewReconciliationService(m repomanager.RepositoryManager) *ReconciliationService {
	return &ReconciliationService{repomanager: m}
}

func (s *ReconciliationService) Run(ctx context.Context) (*ReconciliationReport, error) {
	list, err := s.repomanager.Donations().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}

	report := &ReconciliationReport{RunID: uuid.NewString(), Checked: len(list), Findings: []Finding{}}
	counts := map[string]int{FindingMissingCreateTx: 0, FindingMissingVerifyTx: 0, FindingUnconfirmedTx: 0}
	add := func(id int64, kind string) {
		report.Findings = append(report.Findings, Finding{DonationID: id, Kind: kind})
		counts[kind]++
	}

	for _, d := range list {
		if empty(d.ChainCreateTx) {
			add(d.ID, FindingMissingCreateTx)
		} else if !d.TxConfirmed {
			add(d.ID, FindingUnconfirmedTx)
		}
		if d.Status == models.DonationVerified && empty(d.ChainVerifyTx) {
			add(d.ID, FindingMissingVerifyTx)
		}
	}

	for kind, n := range counts {
		metrics.ReconciliationFindings.WithLabelValues(kind).Set(float64(n))
	}
	return report, nil
}

func empty(s *string) bool { return s == nil || *s == "" }
