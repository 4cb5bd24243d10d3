package analysis

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/solana"
)

const (
	raydiumProgramID = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	jupiterProgramID = "JUP4Fb2cqiRUcaTHdrPC8h2gNsA2ETXiPDD33WcGuJB"

	// txBatchSize bounds concurrent getTransaction calls per batch to
	// stay under RPC rate limits.
	txBatchSize  = 10
	txBatchPause = 100 * time.Millisecond
)

// transactions fetches and parses the holder's recent history, most
// recent first. Failed transactions and fetch errors are skipped.
func (p *Profiler) transactions(ctx context.Context, holder, mint string, limit int) []domain.HolderTransaction {
	sigs, err := p.rpc.GetSignaturesForAddress(ctx, holder, &solana.SignaturesOpts{Limit: limit})
	if err != nil {
		p.logger.Printf("signatures unavailable for %s: %v", holder, err)
		return nil
	}
	if len(sigs) == 0 {
		return nil
	}

	var parsed []domain.HolderTransaction
	for start := 0; start < len(sigs); start += txBatchSize {
		end := start + txBatchSize
		if end > len(sigs) {
			end = len(sigs)
		}
		batch := sigs[start:end]

		results := make([]*domain.HolderTransaction, len(batch))
		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = p.fetchAndParse(ctx, batch[i], holder, mint)
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			if r != nil {
				parsed = append(parsed, *r)
			}
		}

		if end < len(sigs) {
			select {
			case <-ctx.Done():
				return parsed
			case <-time.After(txBatchPause):
			}
		}
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		ti, tj := int64(0), int64(0)
		if parsed[i].BlockTime != nil {
			ti = *parsed[i].BlockTime
		}
		if parsed[j].BlockTime != nil {
			tj = *parsed[j].BlockTime
		}
		return ti > tj
	})
	return parsed
}

func (p *Profiler) fetchAndParse(ctx context.Context, sig solana.SignatureInfo, holder, mint string) *domain.HolderTransaction {
	tx, err := p.rpc.GetParsedTransaction(ctx, sig.Signature)
	if err != nil {
		p.logger.Printf("transaction %s unavailable: %v", sig.Signature, err)
		return nil
	}
	if tx == nil || tx.Failed() {
		return nil
	}

	record := classifyTransaction(tx, holder, mint)
	record.Signature = sig.Signature
	record.Slot = sig.Slot
	record.BlockTime = sig.BlockTime
	record.Fee = tx.Fee
	record.Status = "success"
	return &record
}

// classifyTransaction inspects parsed instructions for SPL token moves
// on the given mint and for known DEX programs. A swap classification
// outranks a plain transfer.
func classifyTransaction(tx *solana.ParsedTransaction, holder, mint string) domain.HolderTransaction {
	record := domain.HolderTransaction{
		Type:        "unknown",
		Description: "Transaction",
	}

	for _, inst := range tx.Instructions {
		if inst.Program != "spl-token" || inst.Parsed == nil {
			continue
		}
		info := inst.Parsed.Info

		switch inst.Parsed.Type {
		case "transferChecked":
			if info.Mint != mint {
				continue
			}
			record.Amount = parsedAmount(info)
			record.From = nonEmptyPtr(info.Source)
			record.To = nonEmptyPtr(info.Destination)
			if info.Authority == holder {
				record.Type = "send"
				record.Description = "Token Transfer (Sent)"
			} else {
				record.Type = "receive"
				record.Description = "Token Transfer (Received)"
			}
		case "transfer":
			record.Amount = parsedAmount(info)
			record.From = nonEmptyPtr(info.Source)
			record.To = nonEmptyPtr(info.Destination)
			record.Type = "transfer"
			record.Description = "Token Transfer"
		case "mintTo":
			if info.Mint != mint {
				continue
			}
			record.Amount = parsedAmount(info)
			record.To = nonEmptyPtr(info.Account)
			record.Type = "mint"
			record.Description = "Token Mint"
		case "burn":
			if info.Mint != mint {
				continue
			}
			record.Amount = parsedAmount(info)
			record.From = nonEmptyPtr(info.Account)
			record.Type = "burn"
			record.Description = "Token Burn"
		}
	}

	for _, inst := range tx.Instructions {
		switch inst.ProgramID {
		case raydiumProgramID:
			record.Type = "swap"
			record.Description = "Raydium Swap"
		case jupiterProgramID:
			record.Type = "swap"
			record.Description = "Jupiter Swap"
		}
	}
	return record
}

func parsedAmount(info solana.ParsedInfo) float64 {
	if info.TokenAmount != nil {
		return info.TokenAmount.UI()
	}
	v, err := strconv.ParseFloat(info.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
