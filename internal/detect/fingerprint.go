package detect

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/mylabvault/labvault/constants"
)

// Fingerprint describes how a vendor's reports announce themselves: marker
// strings expected somewhere in the text layer. Required markers carry twice
// the weight of optional ones.
type Fingerprint struct {
	Vendor   string               `yaml:"vendor"`
	Strategy constants.StrategyID `yaml:"strategy"`
	Required []string             `yaml:"required"`
	Optional []string             `yaml:"optional"`
}

// DefaultFingerprints returns the built-in vendor set. LabCorp markers come
// from its "Patient Report" layout; Quest reports use inline label-value
// lines.
func DefaultFingerprints() []Fingerprint {
	return []Fingerprint{
		{
			Vendor:   constants.VendorLabCorp,
			Strategy: constants.StrategyColumn,
			Required: []string{"Tests Ordered", "Reference Interval"},
			Optional: []string{"LabCorp", "Patient Report", "Date Collected:", "Ordering Physician:", "Date Received:"},
		},
		{
			Vendor:   constants.VendorQuest,
			Strategy: constants.StrategyLabelValue,
			Required: []string{"Quest Diagnostics"},
			Optional: []string{"Reference Range", "Analyte", "Collected:", "Requisition"},
		},
	}
}

// LoadFingerprints reads additional fingerprints from a YAML file. Entries
// without a vendor or with no markers at all are rejected.
func LoadFingerprints(path string) ([]Fingerprint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fingerprints: %w", err)
	}
	var doc struct {
		Fingerprints []Fingerprint `yaml:"fingerprints"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal fingerprints: %w", err)
	}
	for i, fp := range doc.Fingerprints {
		if fp.Vendor == "" {
			return nil, fmt.Errorf("fingerprint %d: vendor is required", i)
		}
		if len(fp.Required) == 0 && len(fp.Optional) == 0 {
			return nil, fmt.Errorf("fingerprint %q: no markers", fp.Vendor)
		}
		if fp.Strategy == "" {
			doc.Fingerprints[i].Strategy = constants.StrategyGeneric
		}
	}
	return doc.Fingerprints, nil
}
