package output

import (
	"os"

	"github.com/yingxuan/tax-return-tool/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport renders result in the named format and writes it to
// filename, or to a timestamped file when filename is empty.
func GenerateReport(result *domain.TaxCalculation, format, filename string) (string, error) {
	f, err := GetFormatterByName(format)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, result, filename, ExtensionFor(format))
}

// SaveConfiguration writes a return profile as YAML
func SaveConfiguration(input *domain.TaxReturnInput, filename string) error {
	b, err := yaml.Marshal(input)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
