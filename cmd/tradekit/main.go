package main

import (
	"fmt"
	"os"
	"strings"

	"tradekit/internal/cli"
	"tradekit/internal/config"
	"tradekit/internal/logging"
)

func main() {
	// --config-dir must be known before cobra parses flags, because the
	// config feeds the root command's construction.
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs scans for --config-dir ahead of cobra's own parsing.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config-dir" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config-dir=") {
			return strings.TrimPrefix(arg, "--config-dir=")
		}
	}
	return ""
}
