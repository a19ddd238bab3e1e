package appcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# carve configuration
# Settings may also be supplied as CARVE_* environment variables,
# e.g. CARVE_WORKERS=4 CARVE_LOG_LEVEL=debug

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
