package output

import (
	"encoding/json"

	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// JSONFormatter serializes the tax calculation as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.TaxCalculation) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// FormatBatchJSON serializes a batch of calculations as one JSON document.
// Failed returns appear with their error message in place of a result.
func FormatBatchJSON(runID string, results []*domain.TaxCalculation, errs []error) ([]byte, error) {
	type entry struct {
		Result *domain.TaxCalculation `json:"result,omitempty"`
		Error  string                 `json:"error,omitempty"`
	}
	doc := struct {
		RunID   string  `json:"run_id"`
		Returns []entry `json:"returns"`
	}{RunID: runID, Returns: make([]entry, len(results))}
	for i, r := range results {
		doc.Returns[i].Result = r
		if i < len(errs) && errs[i] != nil {
			doc.Returns[i].Error = errs[i].Error()
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}
