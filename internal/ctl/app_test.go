package ctl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/server/auth"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	put      []byte
	putType  string
	verified *bool
	frozen   int64
	err      error
}

func (f *fakeAPI) Donations(context.Context) ([]*models.Donation, error) {
	url := "https://gw.test/x"
	return []*models.Donation{
		{ID: 2, Status: models.DonationVerified, Amount: decimal.RequireFromString("12.5"), NGOID: 1, TxConfirmed: true, EvidenceURL: &url},
		{ID: 1, Status: models.DonationPending, Amount: decimal.NewFromInt(3), NGOID: 4},
	}, f.err
}

func (f *fakeAPI) Freeze(_ context.Context, id int64) (*models.Donation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.frozen = id
	return &models.Donation{ID: id, Status: models.DonationFrozen}, nil
}

func (f *fakeAPI) SetNGOVerification(_ context.Context, id int64, verified bool) (*models.NGO, error) {
	f.verified = &verified
	status := models.NGOVerified
	if !verified {
		status = models.NGORejected
	}
	return &models.NGO{ID: id, VerificationStatus: status}, nil
}

func (f *fakeAPI) Reconcile(context.Context) (*services.ReconciliationReport, error) {
	return &services.ReconciliationReport{
		RunID:    "run-1",
		Checked:  2,
		Findings: []services.Finding{{DonationID: 1, Kind: services.FindingMissingCreateTx}},
	}, nil
}

func (f *fakeAPI) Presign(context.Context) (*services.PresignResult, error) {
	return &services.PresignResult{Key: "uploads/2026/10/17/k", URL: "https://s3.test/put"}, f.err
}

func (f *fakeAPI) PutObject(_ context.Context, url, contentType string, body []byte) error {
	f.put, f.putType = body, contentType
	return nil
}

func newTestApp(api *fakeAPI, stdin string) (*App, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cfg := &Config{}
	cfg.LoadDefaults()
	a := NewApp(cfg, strings.NewReader(stdin), &out, &errOut)
	a.client = api
	return a, &out, &errOut
}

func TestRun_Usage(t *testing.T) {
	a, _, errOut := newTestApp(&fakeAPI{}, "")
	assert.ErrorIs(t, a.Run(context.Background(), nil), ErrUsage)
	assert.Contains(t, errOut.String(), "Commands:")

	assert.ErrorIs(t, a.Run(context.Background(), []string{"explode"}), ErrUsage)
	assert.ErrorIs(t, a.Run(context.Background(), []string{"freeze"}), ErrUsage)
	assert.ErrorIs(t, a.Run(context.Background(), []string{"freeze", "x"}), ErrUsage)
}

func TestRun_Freeze(t *testing.T) {
	api := &fakeAPI{}
	a, out, _ := newTestApp(api, "")
	require.NoError(t, a.Run(context.Background(), []string{"freeze", "7"}))
	assert.Equal(t, int64(7), api.frozen)
	assert.Equal(t, "donation 7 is frozen\n", out.String())

	api.err = &APIError{Status: 404, Code: "not-found"}
	assert.EqualError(t, a.Run(context.Background(), []string{"freeze", "8"}), "server returned 404: not-found")
}

func TestRun_VerifyNGO(t *testing.T) {
	tests := []struct {
		args []string
		want bool
		line string
	}{
		{[]string{"verify-ngo", "3"}, true, "ngo 3 is verified\n"},
		{[]string{"verify-ngo", "3", "-reject"}, false, "ngo 3 is rejected\n"},
		{[]string{"verify-ngo", "-reject", "3"}, false, "ngo 3 is rejected\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			api := &fakeAPI{}
			a, out, _ := newTestApp(api, "")
			require.NoError(t, a.Run(context.Background(), tt.args))
			require.NotNil(t, api.verified)
			assert.Equal(t, tt.want, *api.verified)
			assert.Equal(t, tt.line, out.String())
		})
	}
}

func TestRun_Donations(t *testing.T) {
	a, out, _ := newTestApp(&fakeAPI{}, "")
	require.NoError(t, a.Run(context.Background(), []string{"donations"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "12.5")
	assert.Contains(t, lines[1], "https://gw.test/x")
	assert.Contains(t, lines[2], "pending")
}

func TestRun_Reconcile(t *testing.T) {
	a, out, _ := newTestApp(&fakeAPI{}, "")
	require.NoError(t, a.Run(context.Background(), []string{"reconcile"}))
	assert.JSONEq(t, `{"run_id":"run-1","checked":2,"findings":[{"donation_id":1,"kind":"missing-create-tx"}]}`, out.String())
}

func withPipedStdin(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}

func TestRun_TokenFromPipe(t *testing.T) {
	withPipedStdin(t)
	a, out, errOut := newTestApp(&fakeAPI{}, "s3cret\n")

	require.NoError(t, a.Run(context.Background(), []string{"token", "-sub", "alice", "-ttl", "1h"}))
	assert.Contains(t, errOut.String(), "JWT secret:")

	claims, err := auth.ParseToken(strings.TrimSpace(out.String()), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRun_TokenFromTerminal(t *testing.T) {
	oldTerm, oldRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = oldTerm, oldRead })
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("typed"), nil }

	a, out, _ := newTestApp(&fakeAPI{}, "")
	require.NoError(t, a.Run(context.Background(), []string{"token"}))
	_, err := auth.ParseToken(strings.TrimSpace(out.String()), []byte("typed"))
	assert.NoError(t, err)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	assert.Error(t, a.Run(context.Background(), []string{"token"}))
}

func TestRun_TokenEmptySecret(t *testing.T) {
	withPipedStdin(t)
	a, _, _ := newTestApp(&fakeAPI{}, "\n")
	assert.ErrorIs(t, a.Run(context.Background(), []string{"token"}), ErrUsage)
}

func TestRun_Upload(t *testing.T) {
	old := readFile
	t.Cleanup(func() { readFile = old })
	readFile = func(name string) ([]byte, error) {
		if name != "report.pdf" {
			return nil, errors.New("no such file")
		}
		return []byte("%PDF-1.7 report"), nil
	}

	api := &fakeAPI{}
	a, out, _ := newTestApp(api, "")
	require.NoError(t, a.Run(context.Background(), []string{"upload", "report.pdf"}))
	assert.Equal(t, "%PDF-1.7 report", string(api.put))
	assert.Equal(t, "application/pdf", api.putType)
	assert.Equal(t, "uploaded 15 bytes as uploads/2026/10/17/k\n", out.String())

	assert.Error(t, a.Run(context.Background(), []string{"upload", "missing.pdf"}))
	assert.ErrorIs(t, a.Run(context.Background(), []string{"upload"}), ErrUsage)
}
