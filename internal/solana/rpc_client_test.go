package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rpcServer(t *testing.T, wantMethod string, result interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != wantMethod {
			t.Errorf("expected method %s, got %s", wantMethod, req.Method)
		}
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPClient_GetTokenSupply(t *testing.T) {
	server := rpcServer(t, "getTokenSupply", map[string]interface{}{
		"value": map[string]interface{}{
			"amount":   "1000000000000",
			"decimals": 6,
			"uiAmount": 1000000.0,
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	supply, err := client.GetTokenSupply(context.Background(), "mint123")
	if err != nil {
		t.Fatalf("GetTokenSupply: %v", err)
	}
	if supply.Decimals != 6 {
		t.Errorf("expected decimals 6, got %d", supply.Decimals)
	}
	if supply.UI() != 1000000.0 {
		t.Errorf("expected uiAmount 1000000, got %f", supply.UI())
	}
}

func TestHTTPClient_GetAsset(t *testing.T) {
	server := rpcServer(t, "getAsset", map[string]interface{}{
		"id": "mint123",
		"content": map[string]interface{}{
			"metadata": map[string]interface{}{
				"name":        "Wrapped SOL",
				"symbol":      "SOL",
				"description": "Wrapped Solana",
			},
			"links": map[string]interface{}{"image": "https://img.example/sol.png"},
		},
		"token_info": map[string]interface{}{"decimals": 9},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	asset, err := client.GetAsset(context.Background(), "mint123")
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if asset == nil {
		t.Fatal("expected asset, got nil")
	}
	if asset.Name != "Wrapped SOL" {
		t.Errorf("expected name Wrapped SOL, got %q", asset.Name)
	}
	if asset.Symbol != "SOL" {
		t.Errorf("expected symbol SOL, got %q", asset.Symbol)
	}
	if asset.Image != "https://img.example/sol.png" {
		t.Errorf("unexpected image %q", asset.Image)
	}
	if asset.Decimals == nil || *asset.Decimals != 9 {
		t.Errorf("expected decimals 9, got %v", asset.Decimals)
	}
}

func TestHTTPClient_GetAsset_FileFallback(t *testing.T) {
	server := rpcServer(t, "getAsset", map[string]interface{}{
		"id": "mint123",
		"content": map[string]interface{}{
			"metadata": map[string]interface{}{"name": "Token"},
			"files": []map[string]interface{}{
				{"uri": "https://files.example/logo.png"},
			},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	asset, err := client.GetAsset(context.Background(), "mint123")
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if asset.Image != "https://files.example/logo.png" {
		t.Errorf("expected file URI fallback, got %q", asset.Image)
	}
}

func TestHTTPClient_GetAsset_NotFound(t *testing.T) {
	server := rpcServer(t, "getAsset", nil)
	defer server.Close()

	client := NewHTTPClient(server.URL)
	asset, err := client.GetAsset(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if asset != nil {
		t.Errorf("expected nil asset, got %+v", asset)
	}
}

func TestHTTPClient_GetTokenLargestAccounts(t *testing.T) {
	server := rpcServer(t, "getTokenLargestAccounts", map[string]interface{}{
		"value": []map[string]interface{}{
			{"address": "holder1", "amount": "500", "decimals": 2, "uiAmount": 5.0},
			{"address": "holder2", "amount": "300", "decimals": 2, "uiAmount": 3.0},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	accounts, err := client.GetTokenLargestAccounts(context.Background(), "mint123")
	if err != nil {
		t.Fatalf("GetTokenLargestAccounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Address != "holder1" || accounts[0].UI() != 5.0 {
		t.Errorf("unexpected first account: %+v", accounts[0])
	}
}

func TestHTTPClient_GetTokenAccountsByMint(t *testing.T) {
	server := rpcServer(t, "getProgramAccounts", []map[string]interface{}{
		{
			"pubkey": "acct1",
			"account": map[string]interface{}{
				"data": map[string]interface{}{
					"parsed": map[string]interface{}{
						"info": map[string]interface{}{
							"mint":  "mint123",
							"owner": "owner1",
							"tokenAmount": map[string]interface{}{
								"amount":   "100",
								"decimals": 2,
								"uiAmount": 1.0,
							},
						},
					},
				},
			},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	accounts, err := client.GetTokenAccountsByMint(context.Background(), "mint123")
	if err != nil {
		t.Fatalf("GetTokenAccountsByMint: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Owner != "owner1" || accounts[0].Amount.UI() != 1.0 {
		t.Errorf("unexpected account: %+v", accounts[0])
	}
}

func TestHTTPClient_GetParsedTransaction(t *testing.T) {
	server := rpcServer(t, "getTransaction", map[string]interface{}{
		"slot":      123456,
		"blockTime": 1700000000,
		"meta":      map[string]interface{}{"err": nil, "fee": 5000},
		"transaction": map[string]interface{}{
			"message": map[string]interface{}{
				"instructions": []map[string]interface{}{
					{
						"program":   "spl-token",
						"programId": TokenProgramID,
						"parsed": map[string]interface{}{
							"type": "transferChecked",
							"info": map[string]interface{}{
								"mint":        "mint123",
								"source":      "src",
								"destination": "dst",
								"authority":   "auth",
								"tokenAmount": map[string]interface{}{
									"amount":   "100",
									"decimals": 2,
									"uiAmount": 1.0,
								},
							},
						},
					},
					{
						"programId": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
					},
				},
			},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	tx, err := client.GetParsedTransaction(context.Background(), "sig123")
	if err != nil {
		t.Fatalf("GetParsedTransaction: %v", err)
	}
	if tx == nil {
		t.Fatal("expected transaction, got nil")
	}
	if tx.Fee != 5000 {
		t.Errorf("expected fee 5000, got %d", tx.Fee)
	}
	if len(tx.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(tx.Instructions))
	}
	inst := tx.Instructions[0]
	if inst.Parsed == nil {
		t.Fatal("expected parsed detail on spl-token instruction")
	}
	if inst.Parsed.Type != "transferChecked" {
		t.Errorf("expected transferChecked, got %s", inst.Parsed.Type)
	}
	if inst.Parsed.Info.Mint != "mint123" {
		t.Errorf("expected mint123, got %s", inst.Parsed.Info.Mint)
	}
	if tx.Instructions[1].Parsed != nil {
		t.Error("expected nil parsed detail on unknown program")
	}
}

func TestHTTPClient_GetParsedTransaction_NotFound(t *testing.T) {
	server := rpcServer(t, "getTransaction", nil)
	defer server.Close()

	client := NewHTTPClient(server.URL)
	tx, err := client.GetParsedTransaction(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetParsedTransaction: %v", err)
	}
	if tx != nil {
		t.Errorf("expected nil transaction, got %+v", tx)
	}
}

func TestHTTPClient_RetriesOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]interface{}{"value": 42},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))
	balance, err := client.GetBalance(context.Background(), "addr")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 42 {
		t.Errorf("expected 42, got %d", balance)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestHTTPClient_RPCErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "Invalid param"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))
	_, err := client.GetTokenSupply(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call (no retry on RPC error), got %d", calls.Load())
	}
}
