package anchor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
)

// Horizon asks a Stellar Horizon server for a transaction's outcome.
type Horizon struct {
	httpClient *http.Client
	baseURL    string
}

func NewHorizon(baseURL string, timeout time.Duration) *Horizon {
	return &Horizon{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type horizonTx struct {
	Hash       string `json:"hash"`
	Successful bool   `json:"successful"`
	Ledger     int64  `json:"ledger"`
}

// Confirmed returns false for unknown or failed transactions.
func (h *Horizon) Confirmed(ctx context.Context, hash string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/transactions/"+url.PathEscape(hash), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrAnchorUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("%w: horizon status %d", common.ErrAnchorUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrAnchorUnavailable, err)
	}

	var tx horizonTx
	if err := json.Unmarshal(body, &tx); err != nil {
		return false, fmt.Errorf("%w: failed to unmarshal response: %v", common.ErrAnchorUnavailable, err)
	}
	return tx.Successful, nil
}
