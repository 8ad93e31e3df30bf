package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/logging"
	"github.com/dmitrijs2005/geoledger/internal/server/anchor"
	"github.com/dmitrijs2005/geoledger/internal/server/auth"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeStore keeps pinned objects in a map.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	pingErr error
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) Put(_ context.Context, key, _, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return nil
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) URLs(key string) []string {
	return []string{"https://gw.test/evidence/" + key}
}

func (s *fakeStore) PresignPut(_ context.Context, key string) (string, error) {
	return "https://s3.test/evidence/" + key + "?X-Amz-Signature=abc", nil
}

type testEnv struct {
	manager repomanager.RepositoryManager
	checker anchor.StatusChecker
	store   services.EvidenceStore
	opts    RouterOptions
}

type option func(*testEnv)

func withManager(m repomanager.RepositoryManager) option {
	return func(e *testEnv) { e.manager = m }
}

func withChecker(c anchor.StatusChecker) option {
	return func(e *testEnv) { e.checker = c }
}

func withStore(s services.EvidenceStore) option {
	return func(e *testEnv) { e.store = s }
}

func withRouterOptions(f func(*RouterOptions)) option {
	return func(e *testEnv) { f(&e.opts) }
}

// newTestRouter builds the full HTTP surface over an unseeded memory store.
func newTestRouter(t *testing.T, opts ...option) http.Handler {
	t.Helper()
	e := &testEnv{
		manager: repomanager.NewMemoryRepositoryManager(false),
		checker: anchor.Optimistic{},
		opts: RouterOptions{
			JWTSecret:   testSecret,
			CORSOrigins: []string{"*"},
		},
	}
	for _, o := range opts {
		o(e)
	}

	h := NewHandler(
		services.NewDonationService(e.manager, e.checker, clock),
		services.NewRegistryService(e.manager, clock),
		services.NewEvidenceService(e.store, e.manager, clock),
		services.NewReconciliationService(e.manager),
		logging.Nop{},
	)
	return NewRouter(h, e.opts, logging.Nop{})
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["error"].(string)
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken("ops", "admin", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func donationBody(amount string) string {
	return fmt.Sprintf(`{"donor_public_key":"GDONOR","amount":%s,"ngo_id":1,"donor_location":{"lat":-1.29,"lng":36.82}}`, amount)
}

func createDonation(t *testing.T, h http.Handler) int64 {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/donations", donationBody("25.5"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(decode[map[string]any](t, rec)["id"].(float64))
}
