package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient implements RPCClient using HTTP JSON-RPC 2.0.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new Solana RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rpcRequest represents a JSON-RPC 2.0 request. Params is positional
// for standard methods and an object for DAS methods.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call with retries and exponential backoff.
// Transport failures and 429s are retried; RPC-level errors are not.
func (c *HTTPClient) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	reqID := c.requestID.Add(1)
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}

		if rpcResp.Error != nil {
			// RPC errors are not retried
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// valueEnvelope is the {context, value} wrapper standard RPC methods
// return their payload in.
type valueEnvelope[T any] struct {
	Value T `json:"value"`
}

// GetAsset retrieves DAS asset metadata for a mint.
func (c *HTTPClient) GetAsset(ctx context.Context, mint string) (*Asset, error) {
	params := map[string]interface{}{"id": mint}

	var result getAssetResult
	if err := c.call(ctx, "getAsset", params, &result); err != nil {
		return nil, err
	}

	if result.ID == "" && result.Content == nil {
		return nil, nil
	}

	asset := &Asset{}
	if result.Content != nil {
		asset.Name = result.Content.Metadata.Name
		asset.Symbol = result.Content.Metadata.Symbol
		asset.Description = result.Content.Metadata.Description
		asset.Image = result.Content.Links.Image
		if asset.Image == "" && len(result.Content.Files) > 0 {
			asset.Image = result.Content.Files[0].URI
		}
	}
	if result.TokenInfo != nil {
		d := result.TokenInfo.Decimals
		asset.Decimals = &d
	}
	return asset, nil
}

type getAssetResult struct {
	ID      string `json:"id"`
	Content *struct {
		Metadata struct {
			Name        string `json:"name"`
			Symbol      string `json:"symbol"`
			Description string `json:"description"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
		Files []struct {
			URI string `json:"uri"`
		} `json:"files"`
	} `json:"content"`
	TokenInfo *struct {
		Decimals int `json:"decimals"`
	} `json:"token_info"`
}

// GetAccountInfo retrieves account info by public key.
// Returns nil if account not found.
func (c *HTTPClient) GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error) {
	params := []interface{}{
		pubkey,
		map[string]interface{}{"encoding": "base64"},
	}

	var result valueEnvelope[*getAccountInfoValue]
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil {
		return nil, nil
	}

	return &AccountInfo{
		Lamports:   result.Value.Lamports,
		Owner:      result.Value.Owner,
		Executable: result.Value.Executable,
		RentEpoch:  result.Value.RentEpoch,
	}, nil
}

type getAccountInfoValue struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

// GetBalance returns the lamport balance of an account.
func (c *HTTPClient) GetBalance(ctx context.Context, pubkey string) (uint64, error) {
	params := []interface{}{pubkey}

	var result valueEnvelope[uint64]
	if err := c.call(ctx, "getBalance", params, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// GetTokenSupply returns the total supply of a mint.
func (c *HTTPClient) GetTokenSupply(ctx context.Context, mint string) (*TokenAmount, error) {
	params := []interface{}{mint}

	var result valueEnvelope[TokenAmount]
	if err := c.call(ctx, "getTokenSupply", params, &result); err != nil {
		return nil, err
	}
	amount := result.Value
	return &amount, nil
}

// GetTokenLargestAccounts returns the largest token accounts of a mint,
// descending by balance.
func (c *HTTPClient) GetTokenLargestAccounts(ctx context.Context, mint string) ([]LargestAccount, error) {
	params := []interface{}{mint}

	var result valueEnvelope[[]LargestAccount]
	if err := c.call(ctx, "getTokenLargestAccounts", params, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// GetTokenAccountsByMint enumerates all token accounts of a mint via
// getProgramAccounts with a dataSize + memcmp filter on the mint field.
func (c *HTTPClient) GetTokenAccountsByMint(ctx context.Context, mint string) ([]TokenAccount, error) {
	params := []interface{}{
		TokenProgramID,
		map[string]interface{}{
			"encoding": "jsonParsed",
			"filters": []interface{}{
				map[string]interface{}{"dataSize": TokenAccountSize},
				map[string]interface{}{
					"memcmp": map[string]interface{}{
						"offset": 0,
						"bytes":  mint,
					},
				},
			},
		},
	}

	var result []programAccount
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]TokenAccount, 0, len(result))
	for _, pa := range result {
		accounts = append(accounts, pa.toTokenAccount())
	}
	return accounts, nil
}

// GetTokenAccountsByOwner returns the owner's token accounts,
// optionally filtered to one mint (empty mint = all SPL accounts).
func (c *HTTPClient) GetTokenAccountsByOwner(ctx context.Context, owner, mint string) ([]TokenAccount, error) {
	filter := map[string]interface{}{"programId": TokenProgramID}
	if mint != "" {
		filter = map[string]interface{}{"mint": mint}
	}
	params := []interface{}{
		owner,
		filter,
		map[string]interface{}{"encoding": "jsonParsed"},
	}

	var result valueEnvelope[[]programAccount]
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]TokenAccount, 0, len(result.Value))
	for _, pa := range result.Value {
		accounts = append(accounts, pa.toTokenAccount())
	}
	return accounts, nil
}

// programAccount is the raw jsonParsed token-account shape shared by
// getProgramAccounts and getTokenAccountsByOwner.
type programAccount struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					Mint        string      `json:"mint"`
					Owner       string      `json:"owner"`
					TokenAmount TokenAmount `json:"tokenAmount"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}

func (pa programAccount) toTokenAccount() TokenAccount {
	return TokenAccount{
		Pubkey: pa.Pubkey,
		Owner:  pa.Account.Data.Parsed.Info.Owner,
		Mint:   pa.Account.Data.Parsed.Info.Mint,
		Amount: pa.Account.Data.Parsed.Info.TokenAmount,
	}
}

// GetSignaturesForAddress retrieves signatures for an address with
// pagination, newest first.
func (c *HTTPClient) GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	config := map[string]interface{}{
		"commitment": "confirmed",
	}
	if opts != nil {
		if opts.Before != "" {
			config["before"] = opts.Before
		}
		if opts.Until != "" {
			config["until"] = opts.Until
		}
		if opts.Limit > 0 {
			config["limit"] = opts.Limit
		}
	}

	params := []interface{}{address, config}

	var result []getSignaturesResult
	if err := c.call(ctx, "getSignaturesForAddress", params, &result); err != nil {
		return nil, err
	}

	sigs := make([]SignatureInfo, len(result))
	for i, r := range result {
		sigs[i] = SignatureInfo{
			Signature: r.Signature,
			Slot:      r.Slot,
			BlockTime: r.BlockTime,
			Err:       r.Err,
		}
	}
	return sigs, nil
}

type getSignaturesResult struct {
	Signature string      `json:"signature"`
	Slot      int64       `json:"slot"`
	BlockTime *int64      `json:"blockTime"`
	Err       interface{} `json:"err"`
}

// GetParsedTransaction retrieves a transaction with jsonParsed
// instruction encoding. Returns nil if not found.
func (c *HTTPClient) GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var result *getParsedTxResult
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}

	if result == nil || (result.Slot == 0 && result.BlockTime == nil) {
		return nil, nil
	}

	tx := &ParsedTransaction{
		Slot:      result.Slot,
		Signature: signature,
		BlockTime: result.BlockTime,
	}
	if result.Meta != nil {
		tx.Err = result.Meta.Err
		tx.Fee = result.Meta.Fee
	}
	if result.Transaction != nil {
		for _, ri := range result.Transaction.Message.Instructions {
			inst := ParsedInstruction{
				Program:   ri.Program,
				ProgramID: ri.ProgramID,
			}
			// Parsed is an object for programs the node can decode and
			// a bare string for some partially-known programs; only the
			// object form is useful here.
			if len(ri.Parsed) > 0 && ri.Parsed[0] == '{' {
				var detail ParsedDetail
				if err := json.Unmarshal(ri.Parsed, &detail); err == nil {
					inst.Parsed = &detail
				}
			}
			tx.Instructions = append(tx.Instructions, inst)
		}
	}
	return tx, nil
}

type getParsedTxResult struct {
	Slot      int64  `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Err interface{} `json:"err"`
		Fee uint64      `json:"fee"`
	} `json:"meta"`
	Transaction *struct {
		Message struct {
			Instructions []struct {
				Program   string          `json:"program"`
				ProgramID string          `json:"programId"`
				Parsed    json.RawMessage `json:"parsed"`
			} `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}
