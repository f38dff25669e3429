package output

import (
	"bytes"
	"encoding/csv"

	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// CSVDetailedExporter writes one row per bracket slice for federal ordinary
// income and the computed state, followed by one row per rental property.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(result *domain.TaxCalculation) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Section", "Jurisdiction", "Label", "Rate", "Min", "Max", "Income", "Tax"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	write := func(jurisdiction string, slices []domain.BracketSlice) error {
		for _, s := range slices {
			upper := ""
			if !s.Max.IsZero() {
				upper = s.Max.StringFixed(2)
			}
			row := []string{"bracket", jurisdiction, "", s.Rate.String(), s.Min.StringFixed(2), upper, s.Income.StringFixed(2), s.Tax.StringFixed(2)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write("federal", result.Federal.Brackets); err != nil {
		return nil, err
	}
	if s := result.State.Result; s != nil {
		if err := write(s.Jurisdiction, s.Brackets); err != nil {
			return nil, err
		}
	}
	for _, p := range result.ScheduleE.Properties {
		row := []string{"rental", "federal", p.Address, "", "", "", p.GrossIncome.StringFixed(2), p.NetIncome.StringFixed(2)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
