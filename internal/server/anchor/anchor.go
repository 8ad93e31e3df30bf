// Package anchor describes the ledger side of a donation: the client-side
// contract that records events on chain, and the server-side check that a
// reported transaction actually landed. The server never writes to the
// chain itself; it only stores the transaction hashes clients report.
package anchor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DonationEvent is what a client anchors when a donation is made.
type DonationEvent struct {
	DonationID int64
	Donor      string
	NGOWallet  string
	Amount     decimal.Decimal
	Lat, Lng   float64
}

// Receipt identifies a ledger write.
type Receipt struct {
	TxHash    string
	Ledger    int64
	Timestamp time.Time
}

// Anchor records donation lifecycle events on a ledger.
type Anchor interface {
	RecordDonation(ctx context.Context, ev DonationEvent) (Receipt, error)
	VerifyImpact(ctx context.Context, donationID int64, verifier string) (Receipt, error)
}

// StatusChecker reports whether a transaction hash is final and successful.
// Implementations return common.ErrAnchorUnavailable when the ledger
// cannot be asked.
type StatusChecker interface {
	Confirmed(ctx context.Context, hash string) (bool, error)
}

// Optimistic accepts every hash. It is the default when no ledger
// endpoint is configured.
type Optimistic struct{}

func (Optimistic) Confirmed(context.Context, string) (bool, error) { return true, nil }
