package job

import (
	"embed"
	"fmt"
)

//go:embed samples/*.json
var samples embed.FS

// SampleJSON returns the bundled sample record for t.
func SampleJSON(t DocType) ([]byte, error) {
	data, err := samples.ReadFile(fmt.Sprintf("samples/%s.json", t))
	if err != nil {
		return nil, fmt.Errorf("no sample for %s: %w", t, err)
	}
	return data, nil
}

// Sample returns the parsed sample record for t.
func Sample(t DocType) (*Record, error) {
	data, err := SampleJSON(t)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
