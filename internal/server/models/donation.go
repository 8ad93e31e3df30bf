// Package models defines server-side data models persisted by the record
// stores and returned by the HTTP API.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching what clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationPending  DonationStatus = "pending"
	DonationVerified DonationStatus = "verified"
	DonationFrozen   DonationStatus = "frozen"
)

// Location is a latitude/longitude pair in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Donation is a single contribution from a donor to an NGO.
//
// Status moves pending -> verified only; frozen is reachable from any state
// and is terminal. TxConfirmed is tracked independently of Status.
type Donation struct {
	ID             int64           `json:"id"`
	DonorPublicKey string          `json:"donor_public_key"`
	Amount         decimal.Decimal `json:"amount"`
	NGOID          int64           `json:"ngo_id"`
	ProjectID      *int64          `json:"project_id"`
	DonorLat       float64         `json:"donor_lat"`
	DonorLng       float64         `json:"donor_lng"`
	RecipientLat   *float64        `json:"recipient_lat"`
	RecipientLng   *float64        `json:"recipient_lng"`
	Status         DonationStatus  `json:"status"`
	EvidenceURL    *string         `json:"evidence_url"`
	ChainCreateTx  *string         `json:"chain_create_tx"`
	ChainVerifyTx  *string         `json:"chain_verify_tx"`
	TxConfirmed    bool            `json:"tx_confirmed"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DonorLocation returns the donor coordinates as a pair.
func (d *Donation) DonorLocation() Location {
	return Location{Lat: d.DonorLat, Lng: d.DonorLng}
}

// RecipientLocation returns the recipient coordinates, or nil if they were
// never set.
func (d *Donation) RecipientLocation() *Location {
	if d.RecipientLat == nil || d.RecipientLng == nil {
		return nil
	}
	return &Location{Lat: *d.RecipientLat, Lng: *d.RecipientLng}
}

// DonationPatch lists the narrow mutations a donation accepts after
// creation. Nil fields are left untouched.
type DonationPatch struct {
	RecipientLocation *Location
	EvidenceURL       *string
	Status            *DonationStatus
	ChainVerifyTx     *string
	TxConfirmed       *bool

	// ClearChainVerifyTx resets the stored ledger reference to null. It is
	// ignored when ChainVerifyTx is set.
	ClearChainVerifyTx bool

	// UnlessStatus rejects the patch with common.ErrInvalidTransition when
	// the stored donation currently has this status.
	UnlessStatus *DonationStatus
}

// Apply copies the non-nil fields of p onto d. Guards are not evaluated.
func (p DonationPatch) Apply(d *Donation) {
	if p.RecipientLocation != nil {
		lat, lng := p.RecipientLocation.Lat, p.RecipientLocation.Lng
		d.RecipientLat = &lat
		d.RecipientLng = &lng
	}
	if p.EvidenceURL != nil {
		v := *p.EvidenceURL
		d.EvidenceURL = &v
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.ChainVerifyTx != nil {
		v := *p.ChainVerifyTx
		d.ChainVerifyTx = &v
	} else if p.ClearChainVerifyTx {
		d.ChainVerifyTx = nil
	}
	if p.TxConfirmed != nil {
		d.TxConfirmed = *p.TxConfirmed
	}
}

// Empty reports whether the patch would change nothing.
func (p DonationPatch) Empty() bool {
	return p.RecipientLocation == nil && p.EvidenceURL == nil && p.Status == nil &&
		p.ChainVerifyTx == nil && !p.ClearChainVerifyTx && p.TxConfirmed == nil
}
