package sources

import (
	"context"
	"log"
	"os"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/solana"
)

// Metadata resolves token identity through the RPC node's DAS getAsset
// call. Metadata is optional data: any failure degrades to an all-nil
// fragment.
type Metadata struct {
	rpc    solana.RPCClient
	logger *log.Logger
}

// NewMetadata creates a metadata source backed by the given RPC client.
func NewMetadata(rpc solana.RPCClient, logger *log.Logger) *Metadata {
	if logger == nil {
		logger = log.New(os.Stdout, "[metadata] ", log.LstdFlags)
	}
	return &Metadata{rpc: rpc, logger: logger}
}

// Fetch returns the identity fragment for a mint. Never fails; an
// unavailable or unknown asset yields an empty fragment.
func (m *Metadata) Fetch(ctx context.Context, mint string) domain.Fragment {
	start := time.Now()
	asset, err := m.rpc.GetAsset(ctx, mint)
	observability.RecordSourceRequest("helius_metadata", err, time.Since(start).Seconds())
	if err != nil {
		m.logger.Printf("getAsset failed for %s: %v", mint, err)
		return domain.Fragment{}
	}
	if asset == nil {
		return domain.Fragment{}
	}
	return domain.Fragment{
		Name:        strPtr(asset.Name),
		Symbol:      strPtr(asset.Symbol),
		Image:       strPtr(asset.Image),
		Description: strPtr(asset.Description),
		Decimals:    asset.Decimals,
	}
}

// FetchMetadata returns the deep-dive metadata shape for a mint, built
// from the same fragment.
func (m *Metadata) FetchMetadata(ctx context.Context, mint string) domain.TokenMetadata {
	f := m.Fetch(ctx, mint)
	return domain.TokenMetadata{
		Name:        f.Name,
		Symbol:      f.Symbol,
		Decimals:    f.Decimals,
		LogoURI:     f.Image,
		Description: f.Description,
	}
}
