package profile

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes, schema-checks, normalizes, and validates a profile
// document. Returned warnings record lenient fix-ups; any error is fatal
// for the whole run.
func Parse(data []byte, logger *slog.Logger) (*Profile, []Warning, error) {
	var shape any
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := validateShape(shape); err != nil {
		return nil, nil, err
	}

	raw := defaultRaw()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	p, warnings, err := normalize(raw, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := validate(p); err != nil {
		return nil, nil, err
	}
	return p, warnings, nil
}

// Load reads and parses the profile document at path.
func Load(path string, logger *slog.Logger) (*Profile, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, warnings, err := Parse(data, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, warnings, nil
}
