package solana

import "context"

// RPCClient defines the Solana RPC surface the scanner uses. Helius
// endpoints implement the standard methods plus the DAS getAsset call.
type RPCClient interface {
	// GetAsset retrieves DAS asset metadata for a mint. Returns nil if
	// the asset is unknown to the endpoint.
	GetAsset(ctx context.Context, mint string) (*Asset, error)

	// GetAccountInfo retrieves account info by public key. Returns nil
	// if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetTokenSupply returns the total supply of a mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenAmount, error)

	// GetTokenLargestAccounts returns the largest token accounts of a
	// mint, descending by balance. The RPC caps the list at 20 entries.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]LargestAccount, error)

	// GetTokenAccountsByMint enumerates every token account of a mint
	// via getProgramAccounts. Expensive for large mints.
	GetTokenAccountsByMint(ctx context.Context, mint string) ([]TokenAccount, error)

	// GetTokenAccountsByOwner returns the owner's token accounts,
	// optionally filtered to one mint (empty mint = all).
	GetTokenAccountsByOwner(ctx context.Context, owner, mint string) ([]TokenAccount, error)

	// GetSignaturesForAddress retrieves signatures for an address,
	// newest first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetParsedTransaction retrieves a transaction with jsonParsed
	// instruction encoding. Returns nil if not found.
	GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error)
}
