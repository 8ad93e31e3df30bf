package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/netx"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
	"github.com/sethvargo/go-retry"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Code)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Client talks to the ledger's admin HTTP routes.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	backoff func() retry.Backoff
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
		},
	}
}

// do sends one request and decodes the JSON answer into out. Reads and
// PUTs are retried on transport errors, 429 and 5xx; other methods are
// sent once.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}

	attempt := func(ctx context.Context) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode/100 != 2 {
			var e struct {
				Error string `json:"error"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&e)
			apiErr := &APIError{Status: resp.StatusCode, Code: e.Error}
			if retryable(resp.StatusCode) {
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	b := c.backoff()
	if method != http.MethodGet && method != http.MethodPut {
		b = retry.WithMaxRetries(0, retry.NewConstant(time.Millisecond))
	}
	return retry.Do(ctx, b, attempt)
}

func (c *Client) Donations(ctx context.Context) ([]*models.Donation, error) {
	var out []*models.Donation
	if err := c.do(ctx, http.MethodGet, "/api/donations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Freeze(ctx context.Context, id int64) (*models.Donation, error) {
	var out models.Donation
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/donations/%d/freeze", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetNGOVerification(ctx context.Context, id int64, verified bool) (*models.NGO, error) {
	var out models.NGO
	in := map[string]bool{"verified": verified}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/ngos/%d/verification", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reconcile(ctx context.Context) (*services.ReconciliationReport, error) {
	var out services.ReconciliationReport
	if err := c.do(ctx, http.MethodGet, "/api/admin/reconciliation", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Presign(ctx context.Context) (*services.PresignResult, error) {
	var out services.PresignResult
	if err := c.do(ctx, http.MethodPost, "/api/evidence/presign", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutObject uploads body to a presigned URL obtained from Presign.
func (c *Client) PutObject(ctx context.Context, url, contentType string, body []byte) error {
	return netx.PutPresigned(ctx, c.http, url, contentType, body)
}
