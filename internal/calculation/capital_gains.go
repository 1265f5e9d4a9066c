package calculation

import (
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

// CapitalGainsSummary is the special-rate tax over a set of transactions.
type CapitalGainsSummary struct {
	Tax    decimal.Decimal
	Amount decimal.Decimal
	Lines  []domain.CapitalGainsLine
}

// CapitalGainsTax taxes each transaction at its bucket's flat rate. Long-term
// gains are reduced by the per-transaction exemption first. Transactions with
// no positive amount are skipped.
func CapitalGainsTax(txs []domain.Transaction, rt *domain.RuleTable) (CapitalGainsSummary, error) {
	var sum CapitalGainsSummary
	for _, tx := range txs {
		if !tx.Amount.IsPositive() {
			continue
		}
		rates, err := rt.CapitalGainsRates(tx.Bucket)
		if err != nil {
			return CapitalGainsSummary{}, err
		}

		line := domain.CapitalGainsLine{
			TransactionID: tx.ID,
			Term:          tx.Term,
			Bucket:        tx.Bucket,
			Amount:        tx.Amount,
			Exemption:     decimal.Zero,
		}
		switch tx.Term {
		case domain.ShortTerm:
			line.Rate = rates.ShortTermRate
			line.Tax = tx.Amount.Mul(rates.ShortTermRate)
		case domain.LongTerm:
			line.Rate = rates.LongTermRate
			line.Exemption = decimal.Min(tx.Amount, rates.LongTermExemption)
			line.Tax = tx.Amount.Sub(line.Exemption).Mul(rates.LongTermRate)
		default:
			return CapitalGainsSummary{}, domain.NewConfigError("capital_gains.term", string(tx.Term), domain.ErrUnknownTerm)
		}

		sum.Tax = sum.Tax.Add(line.Tax)
		sum.Amount = sum.Amount.Add(tx.Amount)
		sum.Lines = append(sum.Lines, line)
	}
	return sum, nil
}
