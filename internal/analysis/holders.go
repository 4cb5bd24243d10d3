package analysis

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/sources"
)

const (
	lamportsPerSOL    = 1e9
	portfolioLimit    = 20
	defaultTxLimit    = 20
	associatedTokenID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
)

// knownAddresses overrides name and classification for well-known
// programs and DEX authorities.
var knownAddresses = map[string]struct {
	name string
	typ  domain.AccountType
}{
	solana.SystemProgramID: {"System Program", domain.AccountProgram},
	solana.TokenProgramID:  {"SPL Token Program", domain.AccountProgram},
	associatedTokenID:      {"Associated Token Program", domain.AccountProgram},
	"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM": {"Raydium AMM", domain.AccountExchange},
	jupiterProgramID: {"Jupiter", domain.AccountExchange},
	raydiumProgramID: {"Raydium Authority V4", domain.AccountExchange},
	"5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1": {"Raydium Liquidity Pool", domain.AccountExchange},
}

// DomainSource resolves name-service domains.
type DomainSource interface {
	Domains(ctx context.Context, address string) []string
}

// ProfileSource resolves social profiles.
type ProfileSource interface {
	Profile(ctx context.Context, address string) *sources.SocialProfile
}

// ProfilerOptions wires the holder profile sources.
type ProfilerOptions struct {
	RPC     solana.RPCClient
	Domains DomainSource
	Social  ProfileSource
	Price   PriceSource // optional, converts token balance to USD
	Logger  *log.Logger
	TxLimit int
}

// Profiler builds on-demand holder profiles. Sub-fetches run in
// parallel and each failure degrades only its own field.
type Profiler struct {
	rpc     solana.RPCClient
	domains DomainSource
	social  ProfileSource
	price   PriceSource
	logger  *log.Logger
	txLimit int
}

// NewProfiler creates a holder profiler.
func NewProfiler(opts ProfilerOptions) *Profiler {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[holders] ", log.LstdFlags)
	}
	if opts.TxLimit <= 0 {
		opts.TxLimit = defaultTxLimit
	}
	return &Profiler{
		rpc:     opts.RPC,
		domains: opts.Domains,
		social:  opts.Social,
		price:   opts.Price,
		logger:  opts.Logger,
		txLimit: opts.TxLimit,
	}
}

// Profile aggregates the complete view of one holder for one mint.
func (p *Profiler) Profile(ctx context.Context, holder, mint string) (*domain.HolderProfile, error) {
	if holder == "" {
		return nil, domain.ErrNoAddress
	}

	profile := &domain.HolderProfile{
		Address:     holder,
		AccountType: domain.AccountWallet,
		Domains:     []string{},
	}

	var (
		wg       sync.WaitGroup
		social   *sources.SocialProfile
		txs      []domain.HolderTransaction
		holdings []domain.PortfolioItem
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.classify(ctx, holder, profile)
	}()

	if mint != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			profile.Balance = p.tokenBalance(ctx, holder, mint)
		}()
	}

	if p.domains != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := p.domains.Domains(ctx, holder); len(d) > 0 {
				profile.Domains = d
			}
		}()
	}

	if p.social != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			social = p.social.Profile(ctx, holder)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		profile.SolBalance = p.solBalance(ctx, holder)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		txs = p.transactions(ctx, holder, mint, p.txLimit)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		holdings = p.portfolio(ctx, holder)
	}()

	wg.Wait()

	profile.Transactions = txs
	profile.Portfolio = holdings

	// Domains outrank the social profile for the display name.
	if len(profile.Domains) > 0 {
		profile.Name = &profile.Domains[0]
	}
	if social != nil {
		if profile.Name == nil {
			profile.Name = social.Name
		}
		profile.Avatar = social.Avatar
		profile.Social = social.Links
	}

	if known, ok := knownAddresses[holder]; ok {
		name := known.name
		profile.Name = &name
		profile.AccountType = known.typ
		profile.IsContract = true
	}

	if p.price != nil && profile.Balance > 0 {
		if price := p.price.Price(ctx, mint); price != nil {
			usd := profile.Balance * *price
			profile.BalanceUSD = &usd
		}
	}

	// Anonymous wallets get an approximate creation date from their
	// oldest recent signature.
	if profile.Name == nil && !profile.IsContract {
		p.fillCreationDate(ctx, holder, profile)
	}

	return profile, nil
}

// classify determines the account type from on-chain account info. An
// executable account is a program; a non-executable account not owned
// by the system program, or an address off the ed25519 curve, is a
// program-derived account.
func (p *Profiler) classify(ctx context.Context, address string, profile *domain.HolderProfile) {
	info, err := p.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		p.logger.Printf("account info unavailable for %s: %v", address, err)
		return
	}
	if info == nil {
		// No on-chain record; fall back to the curve check alone.
		if !isOnCurve(address) {
			profile.AccountType = domain.AccountPDA
		}
		return
	}
	switch {
	case info.Executable:
		profile.IsContract = true
		profile.AccountType = domain.AccountProgram
		profile.ProgramOwner = &info.Owner
	case info.Owner != solana.SystemProgramID:
		profile.AccountType = domain.AccountPDA
		profile.ProgramOwner = &info.Owner
	}
}

// isOnCurve reports whether the address decodes to a point on the
// ed25519 curve. PDAs are derived to be off-curve.
func isOnCurve(address string) bool {
	raw, err := base58.Decode(address)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

func (p *Profiler) tokenBalance(ctx context.Context, holder, mint string) float64 {
	accounts, err := p.rpc.GetTokenAccountsByOwner(ctx, holder, mint)
	if err != nil {
		p.logger.Printf("token balance unavailable for %s: %v", holder, err)
		return 0
	}
	if len(accounts) == 0 {
		return 0
	}
	return accounts[0].Amount.UI()
}

func (p *Profiler) solBalance(ctx context.Context, holder string) float64 {
	lamports, err := p.rpc.GetBalance(ctx, holder)
	if err != nil {
		p.logger.Printf("sol balance unavailable for %s: %v", holder, err)
		return 0
	}
	return float64(lamports) / lamportsPerSOL
}

// portfolio lists the holder's non-zero holdings across all mints,
// capped at 20 entries.
func (p *Profiler) portfolio(ctx context.Context, holder string) []domain.PortfolioItem {
	accounts, err := p.rpc.GetTokenAccountsByOwner(ctx, holder, "")
	if err != nil {
		p.logger.Printf("portfolio unavailable for %s: %v", holder, err)
		return nil
	}
	items := make([]domain.PortfolioItem, 0, len(accounts))
	for _, acc := range accounts {
		balance := acc.Amount.UI()
		if balance <= 0 {
			continue
		}
		items = append(items, domain.PortfolioItem{
			Mint:     acc.Mint,
			Balance:  balance,
			Decimals: acc.Amount.Decimals,
			Account:  acc.Pubkey,
		})
		if len(items) == portfolioLimit {
			break
		}
	}
	return items
}

func (p *Profiler) fillCreationDate(ctx context.Context, holder string, profile *domain.HolderProfile) {
	sigs, err := p.rpc.GetSignaturesForAddress(ctx, holder, &solana.SignaturesOpts{Limit: 5})
	if err != nil || len(sigs) == 0 {
		return
	}
	oldest := sigs[len(sigs)-1]
	if oldest.BlockTime != nil {
		created := time.Unix(*oldest.BlockTime, 0).UTC()
		profile.CreationDate = &created
	}
}
