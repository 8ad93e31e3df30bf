// Package anchortest provides an in-process ledger for tests that need
// anchoring and confirmation to agree with each other.
package anchortest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/anchor"
)

// Ledger is an in-process anchor.Anchor and anchor.StatusChecker. Hashes are
// derived from the event, so the same event always yields the same hash.
type Ledger struct {
	mu     sync.Mutex
	now    func() time.Time
	ledger int64
	txs    map[string]anchor.Receipt
}

func NewLedger(now func() time.Time) *Ledger {
	return &Ledger{now: now, txs: make(map[string]anchor.Receipt)}
}

func (m *Ledger) record(payload string) anchor.Receipt {
	hash := common.ContentID([]byte(payload))

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.txs[hash]; ok {
		return r
	}
	m.ledger++
	r := anchor.Receipt{TxHash: hash, Ledger: m.ledger, Timestamp: m.now()}
	m.txs[hash] = r
	return r
}

func (m *Ledger) RecordDonation(_ context.Context, ev anchor.DonationEvent) (anchor.Receipt, error) {
	return m.record(fmt.Sprintf("donation|%d|%s|%s|%s|%f|%f",
		ev.DonationID, ev.Donor, ev.NGOWallet, ev.Amount.String(), ev.Lat, ev.Lng)), nil
}

func (m *Ledger) VerifyImpact(_ context.Context, donationID int64, verifier string) (anchor.Receipt, error) {
	return m.record(fmt.Sprintf("verify|%d|%s", donationID, verifier)), nil
}

// Confirmed reports whether hash was produced by this ledger.
func (m *Ledger) Confirmed(_ context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.txs[hash]
	return ok, nil
}
