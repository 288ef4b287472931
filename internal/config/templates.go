package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# tradekit Configuration

[logging]
# Log level: debug, info, warn, error
level = "info"
# Write human-readable output to stderr
console = true
# Write JSON lines to a rotating log file
file = true
# Log file location (empty uses ~/.config/tradekit/logs/tradekit.log)
# file_path = ""
# Maximum log file size in megabytes before rotation
max_size = 100
# Number of rotated files to keep
max_backups = 7
# Maximum age of rotated files in days
max_age = 30

[ui]
# Enable colored output
color_enabled = true
# Emit machine-readable JSON instead of tables
json = false

[check]
# Number of self-check runs
runs = 20
# Number of runs executed concurrently
parallel = 4
# Base seed for deterministic runs
seed = 1
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
