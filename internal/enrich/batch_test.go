package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-scanner/internal/domain"
)

func seedList(addresses ...string) []domain.TokenSeed {
	seeds := make([]domain.TokenSeed, len(addresses))
	for i, a := range addresses {
		seeds[i] = domain.TokenSeed{Address: a}
	}
	return seeds
}

func TestBatch_PreservesInputOrder(t *testing.T) {
	p := NewPipeline(Options{
		Metadata: fakeMetadata{frag: domain.Fragment{Name: sp("Token")}},
		Logger:   quietLogger(),
	})
	b := NewBatch(p, quietLogger())

	records := b.Run(context.Background(), seedList("a", "b", "c", "d"))
	require.Len(t, records, 4)
	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, records[i].Address)
	}
}

func TestBatch_DropsZeroSignalEntities(t *testing.T) {
	p := NewPipeline(Options{Logger: quietLogger()})
	b := NewBatch(p, quietLogger())

	// A seed without an address resolves nothing anywhere.
	records := b.Run(context.Background(), seedList("a", "", "c"))
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Address)
	assert.Equal(t, "c", records[1].Address)
}

func TestBatch_OneFailureNeverCancelsSiblings(t *testing.T) {
	p := NewPipeline(Options{
		Pairs:  fakePairs{err: assert.AnError},
		Logger: quietLogger(),
	})
	b := NewBatch(p, quietLogger())

	records := b.Run(context.Background(), seedList("a", "b"))
	require.Len(t, records, 2)
}

func TestBatch_FudScoreStableWithinRun(t *testing.T) {
	p := NewPipeline(Options{Logger: quietLogger()})
	b := NewBatch(p, quietLogger())

	records := b.Run(context.Background(), seedList("same", "same", "same"))
	require.Len(t, records, 3)
	assert.Equal(t, records[0].FudScore, records[1].FudScore)
	assert.Equal(t, records[1].FudScore, records[2].FudScore)
}

func TestBatch_CanceledContextAbandonsRun(t *testing.T) {
	p := NewPipeline(Options{Logger: quietLogger()})
	b := NewBatch(p, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, b.Run(ctx, seedList("a", "b")))
}

func TestBatch_EmptySeedList(t *testing.T) {
	b := NewBatch(NewPipeline(Options{Logger: quietLogger()}), quietLogger())
	assert.Empty(t, b.Run(context.Background(), nil))
}
