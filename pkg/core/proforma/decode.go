package proforma

import (
	"fmt"
	"os"

	"proforma_engine/pkg/core/utils"
)

// Decode parses a pro forma document. Strict JSON is preferred; Hjson
// drafts (comments, unquoted keys) and lightly malformed JSON are accepted
// through utils.SmartParse. Missing fields decode as zero.
func Decode(data []byte) (*ProForma, error) {
	var p ProForma
	strategy, err := utils.SmartParse(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("decode pro forma: %w", err)
	}
	if strategy != utils.StrategyJSON {
		fmt.Fprintf(os.Stderr, "[PROFORMA] decoded %q via %s fallback\n", p.Name, strategy)
	}
	return &p, nil
}

// LoadFile reads and decodes a pro forma document from disk.
func LoadFile(path string) (*ProForma, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pro forma %s: %w", path, err)
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
