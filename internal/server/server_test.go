package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-scanner/internal/analysis"
	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/refresh"
)

type fakeSnapshots struct {
	snap *refresh.Snapshot
	err  error
}

func (f fakeSnapshots) Snapshot() *refresh.Snapshot { return f.snap }
func (f fakeSnapshots) LastError() error            { return f.err }
func (f fakeSnapshots) RefreshIn() time.Duration    { return 12 * time.Second }

type fakeAnalyzer struct {
	result *domain.TokenAnalysis
	err    error
}

func (f fakeAnalyzer) Analyze(context.Context, string, analysis.ProgressFunc) (*domain.TokenAnalysis, error) {
	return f.result, f.err
}

type fakeProfiler struct {
	profile *domain.HolderProfile
	err     error
}

func (f fakeProfiler) Profile(context.Context, string, string) (*domain.HolderProfile, error) {
	return f.profile, f.err
}

type fakeProxy struct {
	body     []byte
	status   int
	err      error
	interval string
}

func (f *fakeProxy) Search(_ context.Context, _ string) ([]byte, int, error) {
	return f.body, f.status, f.err
}

func (f *fakeProxy) Candles(_ context.Context, _, interval string) ([]byte, int, error) {
	f.interval = interval
	return f.body, f.status, f.err
}

type fakeCache struct {
	pingErr error
}

func (f fakeCache) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (f fakeCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (f fakeCache) Ping(context.Context) error                               { return f.pingErr }

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func testRequest(t *testing.T, s *Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestTokens_NotReadyBeforeFirstSnapshot(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{err: errors.New("seed list down")},
		Logger:    quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/tokens")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, true, payload["retryable"])
	assert.Contains(t, payload["details"], "seed list down")
}

func TestTokens_ServesSnapshot(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{snap: &refresh.Snapshot{
			Tokens: []*domain.TokenRecord{
				{Address: "mint1", DisplayName: "Wrapped SOL"},
			},
			LastUpdated: time.Now(),
		}},
		Logger: quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/tokens")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Tokens    []domain.TokenRecord `json:"tokens"`
		RefreshIn int                  `json:"refreshIn"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Tokens, 1)
	assert.Equal(t, "Wrapped SOL", payload.Tokens[0].DisplayName)
	assert.Equal(t, 12, payload.RefreshIn)
}

func TestAnalysis_Success(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Analyzer:  fakeAnalyzer{result: &domain.TokenAnalysis{Mint: "mint1"}},
		Logger:    quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/tokens/mint1/analysis")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mint1")
}

func TestAnalysis_NoSupplyIsUnprocessable(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Analyzer:  fakeAnalyzer{err: domain.ErrNoSupply},
		Logger:    quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/tokens/mint1/analysis")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "no total supply")
}

func TestAnalysis_UpstreamFailureIsBadGateway(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Analyzer:  fakeAnalyzer{err: errors.New("rpc down")},
		Logger:    quietLogger(),
	})

	resp, _ := testRequest(t, s, "/api/tokens/mint1/analysis")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHolders_Success(t *testing.T) {
	name := "alice.sol"
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Profiler:  fakeProfiler{profile: &domain.HolderProfile{Address: "wallet1", Name: &name}},
		Logger:    quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/holders/wallet1?mint=mint1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "alice.sol")
}

func TestSearch_RequiresQuery(t *testing.T) {
	s := New(Options{Snapshots: fakeSnapshots{}, Search: &fakeProxy{}, Logger: quietLogger()})
	resp, _ := testRequest(t, s, "/api/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearch_VerbatimBodyOnSuccess(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Search:    &fakeProxy{body: []byte(`{"pairs":[]}`), status: http.StatusOK},
		Logger:    quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/search?q=SOL")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"pairs":[]}`, string(body))
}

func TestSearch_ForwardsUpstreamStatus(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Search:    &fakeProxy{body: []byte("slow down"), status: http.StatusTooManyRequests},
		Logger:    quietLogger(),
	})

	resp, body := testRequest(t, s, "/api/search?q=SOL")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(body), "slow down")
}

func TestSearch_NetworkFailureIsBadGateway(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Search:    &fakeProxy{err: errors.New("dial timeout")},
		Logger:    quietLogger(),
	})

	resp, _ := testRequest(t, s, "/api/search?q=SOL")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCandles_DefaultsInterval(t *testing.T) {
	proxy := &fakeProxy{body: []byte(`{"data":{}}`), status: http.StatusOK}
	s := New(Options{Snapshots: fakeSnapshots{}, Candles: proxy, Logger: quietLogger()})

	resp, _ := testRequest(t, s, "/api/candles?address=mint1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1h", proxy.interval)
}

func TestCandles_RequiresAddress(t *testing.T) {
	s := New(Options{Snapshots: fakeSnapshots{}, Candles: &fakeProxy{}, Logger: quietLogger()})
	resp, _ := testRequest(t, s, "/api/candles")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndReadiness(t *testing.T) {
	s := New(Options{Snapshots: fakeSnapshots{}, Cache: fakeCache{}, Logger: quietLogger()})
	resp, body := testRequest(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = testRequest(t, s, "/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", string(body))
}

func TestReadiness_CacheDown(t *testing.T) {
	s := New(Options{
		Snapshots: fakeSnapshots{},
		Cache:     fakeCache{pingErr: errors.New("connection refused")},
		Logger:    quietLogger(),
	})
	resp, _ := testRequest(t, s, "/readyz")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
