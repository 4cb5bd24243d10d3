package analysis

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/solana/stub"
	"solana-token-scanner/internal/sources"
)

func fp(v float64) *float64 { return &v }

func i64p(v int64) *int64 { return &v }

func quietLog() *log.Logger { return log.New(io.Discard, "", 0) }

type fakeMeta struct {
	meta domain.TokenMetadata
}

func (f fakeMeta) FetchMetadata(context.Context, string) domain.TokenMetadata { return f.meta }

type fakePrice struct {
	p *float64
}

func (f fakePrice) Price(context.Context, string) *float64 { return f.p }

type fakePair struct {
	pair *sources.Pair
	err  error
}

func (f fakePair) BestPair(context.Context, string) (*sources.Pair, error) { return f.pair, f.err }

type fakeBackup struct {
	m     *sources.CoinGeckoMarket
	calls int
}

func (f *fakeBackup) Market(context.Context, string) *sources.CoinGeckoMarket {
	f.calls++
	return f.m
}

type fakeChart struct {
	pts []domain.ChartPoint
}

func (f fakeChart) Series(context.Context, string) []domain.ChartPoint { return f.pts }

// seedChain configures a mint with one million supply, three active
// token accounts out of four, and a three-entry top-holder ranking.
func seedChain(rpc *stub.RPCClient, mint string) {
	rpc.Supplies[mint] = &solana.TokenAmount{Amount: "1000000", Decimals: 0, UIAmount: fp(1_000_000)}
	rpc.MintAccounts[mint] = []solana.TokenAccount{
		{Pubkey: "acc1", Amount: solana.TokenAmount{UIAmount: fp(20000)}},
		{Pubkey: "acc2", Amount: solana.TokenAmount{UIAmount: fp(5000)}},
		{Pubkey: "acc3", Amount: solana.TokenAmount{UIAmount: fp(500)}},
		{Pubkey: "acc4", Amount: solana.TokenAmount{UIAmount: fp(0)}},
	}
	rpc.Largest[mint] = []solana.LargestAccount{
		{Address: "acc1", UIAmount: fp(20000)},
		{Address: "acc2", UIAmount: fp(5000)},
		{Address: "acc3", UIAmount: fp(500)},
	}
}

func TestAnalyzer_FullRun(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedChain(rpc, "mint1")

	name := "Demo"
	a := NewAnalyzer(AnalyzerOptions{
		RPC:      rpc,
		Metadata: fakeMeta{meta: domain.TokenMetadata{Name: &name}},
		Price:    fakePrice{p: fp(1.5)},
		Chart:    fakeChart{pts: []domain.ChartPoint{{Price: 1.5}}},
		Logger:   quietLog(),
	})

	var steps []domain.Progress
	got, err := a.Analyze(context.Background(), "mint1", func(p domain.Progress) {
		steps = append(steps, p)
	})
	require.NoError(t, err)

	require.NotNil(t, got.Metadata.Name)
	assert.Equal(t, "Demo", *got.Metadata.Name)
	require.NotNil(t, got.Market.Price)
	assert.Equal(t, 1.5, *got.Market.Price)
	require.NotNil(t, got.Market.Supply)
	assert.Equal(t, 1_000_000.0, *got.Market.Supply)
	assert.Len(t, got.Market.Chart, 1)

	assert.Equal(t, 3, got.Holders.ActualHolderCount, "zero-balance accounts are not holders")
	assert.Equal(t, 3, got.Holders.SampleSize)

	require.Len(t, steps, analysisSteps)
	for i, p := range steps {
		assert.Equal(t, i+1, p.Step)
		assert.Equal(t, analysisSteps, p.Total)
		assert.NotEmpty(t, p.Message)
	}
}

func TestAnalyzer_RanksAndDistribution(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedChain(rpc, "mint1")

	a := NewAnalyzer(AnalyzerOptions{RPC: rpc, Metadata: fakeMeta{}, Logger: quietLog()})
	got, err := a.Analyze(context.Background(), "mint1", nil)
	require.NoError(t, err)

	top := got.Holders.TopHolders
	require.Len(t, top, 3)
	for i, h := range top {
		assert.Equal(t, i+1, h.Rank, "ranks are dense and 1-based")
	}
	assert.Equal(t, "20,000", top[0].Amount)
	assert.InDelta(t, 2.0, top[0].Percentage, 1e-9)
	assert.InDelta(t, 0.5, top[1].Percentage, 1e-9)
	assert.InDelta(t, 0.05, top[2].Percentage, 1e-9)

	dist := got.Holders.Distribution
	assert.Equal(t, 1, dist.Whales)
	assert.Equal(t, 1, dist.Dolphins)
	assert.Equal(t, 1, dist.Fish)
}

func TestAnalyzer_ZeroSupplyFailsAnalysis(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedChain(rpc, "mint1")
	rpc.Supplies["mint1"] = &solana.TokenAmount{Amount: "0", Decimals: 0, UIAmount: fp(0)}

	a := NewAnalyzer(AnalyzerOptions{RPC: rpc, Metadata: fakeMeta{}, Logger: quietLog()})
	_, err := a.Analyze(context.Background(), "mint1", nil)
	assert.ErrorIs(t, err, domain.ErrNoSupply)
}

func TestAnalyzer_RequiredStepFailures(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{"getProgramAccounts", "enumerate holders"},
		{"getTokenSupply", "get supply"},
		{"getTokenLargestAccounts", "get top holders"},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			rpc := stub.NewRPCClient()
			seedChain(rpc, "mint1")
			rpc.FailWith(tc.method, errors.New("rpc down"))

			a := NewAnalyzer(AnalyzerOptions{RPC: rpc, Metadata: fakeMeta{}, Logger: quietLog()})
			_, err := a.Analyze(context.Background(), "mint1", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAnalyzer_EmptyMint(t *testing.T) {
	a := NewAnalyzer(AnalyzerOptions{RPC: stub.NewRPCClient(), Metadata: fakeMeta{}, Logger: quietLog()})
	_, err := a.Analyze(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrNoAddress)
}

func TestAnalyzer_MarketChainPrimaryWins(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedChain(rpc, "mint1")

	mcap := 42_000_000.0
	backup := &fakeBackup{}
	a := NewAnalyzer(AnalyzerOptions{
		RPC:      rpc,
		Metadata: fakeMeta{},
		Price:    fakePrice{p: fp(150.23)},
		Pairs: fakePair{pair: &sources.Pair{
			PriceUSD:  "1.00",
			MarketCap: &mcap,
		}},
		Backup: backup,
		Logger: quietLog(),
	})

	got, err := a.Analyze(context.Background(), "mint1", nil)
	require.NoError(t, err)

	require.NotNil(t, got.Market.Price)
	assert.Equal(t, 150.23, *got.Market.Price, "primary price feed must not be overwritten")
	require.NotNil(t, got.Market.MarketCap)
	assert.Equal(t, mcap, *got.Market.MarketCap)
	assert.Equal(t, 0, backup.calls, "backup consulted although price and cap were resolved")
}

func TestAnalyzer_BackupFillsMissingMarket(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedChain(rpc, "mint1")

	backup := &fakeBackup{m: &sources.CoinGeckoMarket{
		Price:     fp(0.42),
		MarketCap: fp(9000),
	}}
	a := NewAnalyzer(AnalyzerOptions{
		RPC:      rpc,
		Metadata: fakeMeta{},
		Pairs:    fakePair{err: errors.New("no pairs")},
		Backup:   backup,
		Logger:   quietLog(),
	})

	got, err := a.Analyze(context.Background(), "mint1", nil)
	require.NoError(t, err)
	require.NotNil(t, got.Market.Price)
	assert.Equal(t, 0.42, *got.Market.Price)
	assert.Equal(t, 1, backup.calls)
}

func TestAnalyzer_TopHoldersCappedAtFifty(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedChain(rpc, "mint1")
	var largest []solana.LargestAccount
	for i := 0; i < 60; i++ {
		largest = append(largest, solana.LargestAccount{Address: "acc", UIAmount: fp(10)})
	}
	rpc.Largest["mint1"] = largest

	a := NewAnalyzer(AnalyzerOptions{RPC: rpc, Metadata: fakeMeta{}, Logger: quietLog()})
	got, err := a.Analyze(context.Background(), "mint1", nil)
	require.NoError(t, err)
	assert.Len(t, got.Holders.TopHolders, topHolderLimit)
	assert.Equal(t, 60, got.Holders.SampleSize)
}
