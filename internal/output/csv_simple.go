package output

import (
	"bytes"
	"encoding/csv"

	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per return).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

var summaryHeader = []string{
	"ID", "Taxpayer", "TaxYear", "FilingStatus",
	"FederalAGI", "FederalTaxableIncome", "FederalDeductionMethod", "FederalTax", "FederalRefundOrOwed",
	"State", "StateStatus", "StateTaxableIncome", "StateTax", "StateRefundOrOwed",
	"TotalRefundOrOwed", "Error",
}

func summaryRow(r *domain.TaxCalculation) []string {
	f := r.Federal
	row := []string{
		r.ID,
		r.Taxpayer,
		intToString(int(r.TaxYear)),
		string(r.FilingStatus),
		f.AGI.StringFixed(2),
		f.TaxableIncome.StringFixed(2),
		string(f.DeductionMethod),
		f.TaxAfterCredits.StringFixed(2),
		f.RefundOrOwed.StringFixed(2),
		r.State.Jurisdiction,
		string(r.State.Status),
	}
	if s := r.State.Result; s != nil {
		row = append(row, s.TaxableIncome.StringFixed(2), s.TaxAfterCredits.StringFixed(2), s.RefundOrOwed.StringFixed(2))
	} else {
		row = append(row, "", "", "")
	}
	return append(row, r.TotalRefundOrOwed().StringFixed(2), "")
}

func (c CSVSummarizer) Format(result *domain.TaxCalculation) ([]byte, error) {
	return FormatBatchCSV([]*domain.TaxCalculation{result}, nil, nil)
}

// FormatBatchCSV writes one summary row per return. A return that failed is
// written with its label in the Taxpayer column and the error message.
func FormatBatchCSV(results []*domain.TaxCalculation, labels []string, errs []error) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for i, r := range results {
		var row []string
		if r != nil {
			row = summaryRow(r)
		} else {
			row = make([]string, len(summaryHeader))
			if i < len(labels) {
				row[1] = labels[i]
			}
			if i < len(errs) && errs[i] != nil {
				row[len(row)-1] = errs[i].Error()
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
