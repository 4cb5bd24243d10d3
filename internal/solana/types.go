package solana

// TokenProgramID is the SPL Token program.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// SystemProgramID owns plain wallet accounts.
const SystemProgramID = "11111111111111111111111111111111"

// TokenAccountSize is the byte size of a standard SPL token account.
const TokenAccountSize = 165

// Asset is the DAS metadata of a mint (Helius getAsset).
type Asset struct {
	Name        string
	Symbol      string
	Description string
	Image       string
	Decimals    *int
}

// AccountInfo describes an on-chain account.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Executable bool
	RentEpoch  uint64
}

// TokenAmount is an SPL token amount in raw and UI-adjusted units.
type TokenAmount struct {
	Amount   string   `json:"amount"`
	Decimals int      `json:"decimals"`
	UIAmount *float64 `json:"uiAmount"`
}

// UI returns the UI-adjusted amount, zero when absent.
func (a TokenAmount) UI() float64 {
	if a.UIAmount == nil {
		return 0
	}
	return *a.UIAmount
}

// LargestAccount is one entry of getTokenLargestAccounts, descending
// by balance.
type LargestAccount struct {
	Address  string   `json:"address"`
	Amount   string   `json:"amount"`
	Decimals int      `json:"decimals"`
	UIAmount *float64 `json:"uiAmount"`
}

// UI returns the UI-adjusted amount, zero when absent.
func (a LargestAccount) UI() float64 {
	if a.UIAmount == nil {
		return 0
	}
	return *a.UIAmount
}

// TokenAccount is a parsed SPL token account.
type TokenAccount struct {
	Pubkey string
	Owner  string
	Mint   string
	Amount TokenAmount
}

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for
// getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // start searching backwards from this signature
	Until  string // search until this signature
	Limit  int    // maximum number of signatures to return
}

// ParsedTransaction is a transaction fetched with jsonParsed encoding.
type ParsedTransaction struct {
	Slot         int64
	Signature    string
	BlockTime    *int64
	Fee          uint64
	Err          interface{}
	Instructions []ParsedInstruction
}

// Failed reports whether the transaction errored on chain.
func (t *ParsedTransaction) Failed() bool {
	return t != nil && t.Err != nil
}

// ParsedInstruction is one instruction of a parsed transaction. Parsed
// is nil for programs the RPC node cannot decode.
type ParsedInstruction struct {
	Program   string
	ProgramID string
	Parsed    *ParsedDetail
}

// ParsedDetail is the decoded payload of a known program instruction.
type ParsedDetail struct {
	Type string     `json:"type"`
	Info ParsedInfo `json:"info"`
}

// ParsedInfo carries the union of fields the scanner consumes from
// spl-token instructions. Unused fields stay zero.
type ParsedInfo struct {
	Mint        string       `json:"mint"`
	Source      string       `json:"source"`
	Destination string       `json:"destination"`
	Authority   string       `json:"authority"`
	Account     string       `json:"account"`
	Amount      string       `json:"amount"`
	TokenAmount *TokenAmount `json:"tokenAmount"`
}
