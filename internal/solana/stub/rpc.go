package stub

import (
	"context"
	"errors"

	"solana-token-scanner/internal/solana"
)

// ErrNotConfigured is returned for lookups the stub has no data for
// when FailUnknown is set.
var ErrNotConfigured = errors.New("stub: not configured")

// RPCClient implements solana.RPCClient for testing. Zero value maps
// behave as "no data"; per-call error overrides simulate failing RPC
// methods.
type RPCClient struct {
	Assets        map[string]*solana.Asset
	Accounts      map[string]*solana.AccountInfo
	Balances      map[string]uint64
	Supplies      map[string]*solana.TokenAmount
	Largest       map[string][]solana.LargestAccount
	MintAccounts  map[string][]solana.TokenAccount
	OwnerAccounts map[string][]solana.TokenAccount
	Signatures    map[string][]solana.SignatureInfo
	Transactions  map[string]*solana.ParsedTransaction

	// Errs maps method name to a forced error, e.g. "getTokenSupply".
	Errs map[string]error
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Assets:        make(map[string]*solana.Asset),
		Accounts:      make(map[string]*solana.AccountInfo),
		Balances:      make(map[string]uint64),
		Supplies:      make(map[string]*solana.TokenAmount),
		Largest:       make(map[string][]solana.LargestAccount),
		MintAccounts:  make(map[string][]solana.TokenAccount),
		OwnerAccounts: make(map[string][]solana.TokenAccount),
		Signatures:    make(map[string][]solana.SignatureInfo),
		Transactions:  make(map[string]*solana.ParsedTransaction),
		Errs:          make(map[string]error),
	}
}

// FailWith forces the named method to return err.
func (c *RPCClient) FailWith(method string, err error) {
	c.Errs[method] = err
}

func (c *RPCClient) err(method string) error {
	if c.Errs == nil {
		return nil
	}
	return c.Errs[method]
}

// GetAsset returns the configured asset or nil.
func (c *RPCClient) GetAsset(_ context.Context, mint string) (*solana.Asset, error) {
	if err := c.err("getAsset"); err != nil {
		return nil, err
	}
	return c.Assets[mint], nil
}

// GetAccountInfo returns the configured account or nil.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err := c.err("getAccountInfo"); err != nil {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

// GetBalance returns the configured lamport balance.
func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	if err := c.err("getBalance"); err != nil {
		return 0, err
	}
	return c.Balances[pubkey], nil
}

// GetTokenSupply returns the configured supply.
func (c *RPCClient) GetTokenSupply(_ context.Context, mint string) (*solana.TokenAmount, error) {
	if err := c.err("getTokenSupply"); err != nil {
		return nil, err
	}
	supply, ok := c.Supplies[mint]
	if !ok {
		return nil, ErrNotConfigured
	}
	return supply, nil
}

// GetTokenLargestAccounts returns the configured ranking.
func (c *RPCClient) GetTokenLargestAccounts(_ context.Context, mint string) ([]solana.LargestAccount, error) {
	if err := c.err("getTokenLargestAccounts"); err != nil {
		return nil, err
	}
	return c.Largest[mint], nil
}

// GetTokenAccountsByMint returns the configured full enumeration.
func (c *RPCClient) GetTokenAccountsByMint(_ context.Context, mint string) ([]solana.TokenAccount, error) {
	if err := c.err("getProgramAccounts"); err != nil {
		return nil, err
	}
	return c.MintAccounts[mint], nil
}

// GetTokenAccountsByOwner returns the owner's configured accounts,
// filtered to mint when given.
func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, owner, mint string) ([]solana.TokenAccount, error) {
	if err := c.err("getTokenAccountsByOwner"); err != nil {
		return nil, err
	}
	accounts := c.OwnerAccounts[owner]
	if mint == "" {
		return accounts, nil
	}
	var filtered []solana.TokenAccount
	for _, a := range accounts {
		if a.Mint == mint {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// GetSignaturesForAddress returns configured signatures, newest first.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	if err := c.err("getSignaturesForAddress"); err != nil {
		return nil, err
	}
	sigs := c.Signatures[address]
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}
	return sigs, nil
}

// GetParsedTransaction returns the configured transaction or nil.
func (c *RPCClient) GetParsedTransaction(_ context.Context, signature string) (*solana.ParsedTransaction, error) {
	if err := c.err("getTransaction"); err != nil {
		return nil, err
	}
	return c.Transactions[signature], nil
}
