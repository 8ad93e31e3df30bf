package anchortest

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/server/anchor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	l := NewLedger(func() time.Time { return fixed })
	ctx := context.Background()

	ev := anchor.DonationEvent{DonationID: 1, Donor: "GD", NGOWallet: "GN", Amount: decimal.NewFromInt(5)}
	r1, err := l.RecordDonation(ctx, ev)
	require.NoError(t, err)
	r2, err := l.RecordDonation(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Len(t, r1.TxHash, 64)
	assert.Equal(t, fixed, r1.Timestamp)

	v, err := l.VerifyImpact(ctx, 1, "GV")
	require.NoError(t, err)
	assert.NotEqual(t, r1.TxHash, v.TxHash)
	assert.Equal(t, int64(2), v.Ledger)

	var _ anchor.Anchor = l
	var _ anchor.StatusChecker = l

	ok, _ := l.Confirmed(ctx, v.TxHash)
	assert.True(t, ok)
	ok, _ = l.Confirmed(ctx, "unknown")
	assert.False(t, ok)
}
