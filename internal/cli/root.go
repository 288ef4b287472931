// Package cli provides the command-line interface for the toolkit.
package cli

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradekit/internal/config"
	"tradekit/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "tradekit",
		Short: "Backtest building blocks for contracts, orders and trades",
		Long: `tradekit maintains the entities a backtest runs on: contract groups,
contracts, bid/ask quotes, orders with their fill lifecycle, and the
trades they produce.

Use 'tradekit quote' to inspect a bid/ask snapshot, 'tradekit markers'
to list plot marker styles, and 'tradekit check' to run the built-in
consistency checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}

			// Handle color handling from flag and config
			noColor, _ := cmd.Flags().GetBool("no-color")
			if noColor || !app.Config.UI.ColorEnabled {
				color.NoColor = true
			}

			// Config may force JSON output
			if app.Config.UI.JSON && !cmd.Flags().Changed("json") {
				_ = cmd.Flags().Set("json", "true")
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config-dir", "", "config directory (default: ~/.config/tradekit)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addQuoteCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addCheckCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("tradekit v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Logging Configuration")
	output.Printf("  Level:       %s\n", cfg.Logging.Level)
	output.Printf("  Console:     %v\n", cfg.Logging.Console)
	output.Printf("  File:        %v\n", cfg.Logging.File)
	output.Printf("  File Path:   %s\n", cfg.Logging.FilePath)
	output.Printf("  Max Size:    %d MB\n", cfg.Logging.MaxSize)
	output.Printf("  Max Backups: %d\n", cfg.Logging.MaxBackups)
	output.Printf("  Max Age:     %d days\n", cfg.Logging.MaxAge)
	output.Println()

	output.Bold("UI Configuration")
	output.Printf("  Color:       %v\n", cfg.UI.ColorEnabled)
	output.Printf("  JSON:        %v\n", cfg.UI.JSON)
	output.Println()

	output.Bold("Check Configuration")
	output.Printf("  Runs:        %d\n", cfg.Check.Runs)
	output.Printf("  Parallel:    %d\n", cfg.Check.Parallel)
	output.Printf("  Seed:        %d\n", cfg.Check.Seed)

	return nil
}
