package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/solana/stub"
)

func TestMetadata_Fetch(t *testing.T) {
	rpc := stub.NewRPCClient()
	decimals := 9
	rpc.Assets["mint1"] = &solana.Asset{
		Name:        "Wrapped SOL",
		Symbol:      "SOL",
		Description: "Wrapped Solana",
		Image:       "https://img/sol.png",
		Decimals:    &decimals,
	}

	m := NewMetadata(rpc, testLogger())
	f := m.Fetch(context.Background(), "mint1")
	require.NotNil(t, f.Name)
	assert.Equal(t, "Wrapped SOL", *f.Name)
	require.NotNil(t, f.Symbol)
	assert.Equal(t, "SOL", *f.Symbol)
	require.NotNil(t, f.Decimals)
	assert.Equal(t, 9, *f.Decimals)
}

func TestMetadata_UnknownAssetIsEmpty(t *testing.T) {
	m := NewMetadata(stub.NewRPCClient(), testLogger())
	assert.True(t, m.Fetch(context.Background(), "unknown").IsEmpty())
}

func TestMetadata_FailureIsEmpty(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.FailWith("getAsset", errors.New("rpc down"))

	m := NewMetadata(rpc, testLogger())
	assert.True(t, m.Fetch(context.Background(), "mint1").IsEmpty())
}

func TestMetadata_FetchMetadata(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Assets["mint1"] = &solana.Asset{Name: "Token", Image: "https://img/t.png"}

	m := NewMetadata(rpc, testLogger())
	meta := m.FetchMetadata(context.Background(), "mint1")
	require.NotNil(t, meta.Name)
	assert.Equal(t, "Token", *meta.Name)
	require.NotNil(t, meta.LogoURI)
	assert.Equal(t, "https://img/t.png", *meta.LogoURI)
	assert.Nil(t, meta.Symbol)
}
