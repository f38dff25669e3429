package output

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// BatchSummary totals a batch run and names the return with the largest balance due.
type BatchSummary struct {
	Returns           int
	Failed            int
	TotalFederalTax   decimal.Decimal
	TotalStateTax     decimal.Decimal
	TotalRefundOrOwed decimal.Decimal
	LargestDue        string
	LargestDueAmount  decimal.Decimal
}

// AnalyzeBatch summarizes the successful results of a batch run; nil entries count as failures.
func AnalyzeBatch(results []*domain.TaxCalculation) BatchSummary {
	var s BatchSummary
	type ranked struct {
		name    string
		balance decimal.Decimal
	}
	var ranks []ranked
	for _, r := range results {
		if r == nil {
			s.Failed++
			continue
		}
		s.Returns++
		s.TotalFederalTax = s.TotalFederalTax.Add(r.Federal.TaxAfterCredits)
		if st := r.State.Result; st != nil {
			s.TotalStateTax = s.TotalStateTax.Add(st.TaxAfterCredits)
		}
		total := r.TotalRefundOrOwed()
		s.TotalRefundOrOwed = s.TotalRefundOrOwed.Add(total)
		ranks = append(ranks, ranked{r.Taxpayer, total})
	}
	if len(ranks) == 0 {
		return s
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].balance.LessThan(ranks[j].balance) })
	if ranks[0].balance.IsNegative() {
		s.LargestDue = ranks[0].name
		s.LargestDueAmount = ranks[0].balance.Abs()
	}
	return s
}
