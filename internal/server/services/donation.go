// Package services contains server-side business logic. This file implements
// DonationService, which owns the donation lifecycle: creation, recipient
// location, evidence, impact verification, freezing and tx confirmation.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/anchor"
	"github.com/dmitrijs2005/geoledger/internal/server/metrics"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geoledger/internal/server/schema"
)

// VerifyResult is the envelope returned by an impact verification.
type VerifyResult struct {
	OK            bool                  `json:"ok"`
	DonationID    int64                 `json:"donation_id"`
	Status        models.DonationStatus `json:"status"`
	ChainVerifyTx *string               `json:"chain_verify_tx"`
}

type DonationService struct {
	repomanager repomanager.RepositoryManager
	checker     anchor.StatusChecker
	now         func() time.Time
}

// NewDonationService wires the service to the store and the ledger status
// checker.
func NewDonationService(m repomanager.RepositoryManager, checker anchor.StatusChecker, now func() time.Time) *DonationService {
	return &DonationService{repomanager: m, checker: checker, now: now}
}

// Create records a new pending donation.
func (s *DonationService) Create(ctx context.Context, in schema.DonationInput) (*models.Donation, error) {
	d, err := s.repomanager.Donations().Create(ctx, &models.Donation{
		DonorPublicKey: in.DonorPublicKey,
		Amount:         in.Amount,
		NGOID:          in.NGOID,
		ProjectID:      in.ProjectID,
		DonorLat:       in.DonorLocation.Lat,
		DonorLng:       in.DonorLocation.Lng,
		Status:         models.DonationPending,
		ChainCreateTx:  in.ChainCreateTx,
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating donation: %w", err)
	}
	metrics.DonationTransitions.WithLabelValues(string(models.DonationPending)).Inc()
	return d, nil
}

func (s *DonationService) List(ctx context.Context) ([]*models.Donation, error) {
	list, err := s.repomanager.Donations().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	return list, nil
}

// SetRecipientLocation records where the funds were used.
func (s *DonationService) SetRecipientLocation(ctx context.Context, id int64, loc models.Location) (*models.Donation, error) {
	return s.update(ctx, id, models.DonationPatch{RecipientLocation: &loc})
}

// AttachEvidence replaces the evidence URL. Status is left alone.
func (s *DonationService) AttachEvidence(ctx context.Context, id int64, url string) (*models.Donation, error) {
	return s.update(ctx, id, models.DonationPatch{EvidenceURL: &url})
}

// Freeze moves a donation to the terminal frozen state from any status.
func (s *DonationService) Freeze(ctx context.Context, id int64) (*models.Donation, error) {
	frozen := models.DonationFrozen
	d, err := s.update(ctx, id, models.DonationPatch{Status: &frozen})
	if err != nil {
		return nil, err
	}
	metrics.DonationTransitions.WithLabelValues(string(frozen)).Inc()
	return d, nil
}

func (s *DonationService) update(ctx context.Context, id int64, patch models.DonationPatch) (*models.Donation, error) {
	d, err := s.repomanager.Donations().Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating donation %d: %w", id, err)
	}
	return d, nil
}

// VerifyImpact marks a donation verified and stores the ledger reference.
//
// Frozen donations yield common.ErrInvalidTransition. An unknown id is an
// error only for a durable store; the in-memory store answers with the
// success envelope and changes nothing.
func (s *DonationService) VerifyImpact(ctx context.Context, in schema.VerifyInput) (*VerifyResult, error) {
	verified, frozen := models.DonationVerified, models.DonationFrozen
	_, err := s.repomanager.Donations().Update(ctx, in.DonationID, models.DonationPatch{
		Status:             &verified,
		ChainVerifyTx:      in.ChainVerifyTx,
		ClearChainVerifyTx: in.ChainVerifyTx == nil,
		UnlessStatus:       &frozen,
	})
	switch {
	case err == nil:
		metrics.DonationTransitions.WithLabelValues(string(verified)).Inc()
	case errors.Is(err, common.ErrInvalidTransition):
		return nil, err
	case errors.Is(err, common.ErrorNotFound) && !s.repomanager.Durable():
	default:
		return nil, fmt.Errorf("error verifying donation %d: %w", in.DonationID, err)
	}

	return &VerifyResult{
		OK:            true,
		DonationID:    in.DonationID,
		Status:        verified,
		ChainVerifyTx: in.ChainVerifyTx,
	}, nil
}

// ConfirmTx marks the donation's ledger transaction as confirmed once the
// status checker accepts hash.
func (s *DonationService) ConfirmTx(ctx context.Context, hash string, donationID int64) (*models.Donation, error) {
	if _, err := s.repomanager.Donations().Find(ctx, donationID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading donation %d: %w", donationID, err)
	}

	ok, err := s.checker.Confirmed(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrAnchorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrAnchorUnavailable, err)
	}
	if !ok {
		return nil, common.ErrTxNotConfirmed
	}

	confirmed := true
	return s.update(ctx, donationID, models.DonationPatch{TxConfirmed: &confirmed})
}
