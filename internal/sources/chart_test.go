package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChart_Series(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[{"pairAddress":"p","priceUsd":"100.0","priceChange":{"h24":10},"liquidity":{"usd":1000}}]}`))
	}))
	defer server.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c := NewChart(ChartOptions{
		Dex:    NewDexScreener(DexScreenerOptions{BaseURL: server.URL, Logger: testLogger()}),
		Logger: testLogger(),
		Now:    func() time.Time { return now },
		Seed:   42,
	})

	points := c.Series(context.Background(), "mint1")
	require.Len(t, points, 24)

	assert.Equal(t, now.Add(-23*time.Hour), points[0].Time)
	assert.Equal(t, now, points[23].Time)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Time.After(points[i-1].Time), "series must be time-ascending")
	}
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Price, 0.0)
		// 10% walk plus 1% variance stays well within 80..120
		assert.InDelta(t, 100.0, p.Price, 20.0)
	}
}

func TestChart_Series_NoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[]}`))
	}))
	defer server.Close()

	c := NewChart(ChartOptions{
		Dex:    NewDexScreener(DexScreenerOptions{BaseURL: server.URL, Logger: testLogger()}),
		Logger: testLogger(),
		Seed:   42,
	})
	assert.Empty(t, c.Series(context.Background(), "mint1"))
}

func TestChart_Series_ZeroPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[{"pairAddress":"p","priceUsd":"0"}]}`))
	}))
	defer server.Close()

	c := NewChart(ChartOptions{
		Dex:    NewDexScreener(DexScreenerOptions{BaseURL: server.URL, Logger: testLogger()}),
		Logger: testLogger(),
		Seed:   42,
	})
	assert.Empty(t, c.Series(context.Background(), "mint1"))
}

func TestChart_Sparkline(t *testing.T) {
	c := NewChart(ChartOptions{Logger: testLogger(), Seed: 42})

	prices := c.Sparkline()
	require.Len(t, prices, 30)
	for _, p := range prices {
		assert.Greater(t, p, 0.0)
	}

	// Distinct batches produce distinct filler.
	assert.NotEqual(t, prices, c.Sparkline())
}
