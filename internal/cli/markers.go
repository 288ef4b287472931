// Package cli provides the command-line interface for the toolkit.
package cli

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tradekit/internal/errors"
	"tradekit/internal/models"
	"tradekit/internal/report"
)

// addReportCommands adds reporting commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newMarkersCmd())
}

type markerRow struct {
	Reason string `json:"reason"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
}

// knownReason reports whether rc has its own marker style.
func knownReason(rc models.ReasonCode) bool {
	for _, m := range report.Markers() {
		if m.Reason == rc {
			return true
		}
	}
	return false
}

// colorizeMarker renders a marker symbol in its chart color.
func colorizeMarker(symbol, colorName string) string {
	switch colorName {
	case "blue":
		return color.New(color.FgBlue).Sprint(symbol)
	case "red":
		return color.New(color.FgRed).Sprint(symbol)
	case "green":
		return color.New(color.FgGreen).Sprint(symbol)
	default:
		return symbol
	}
}

func newMarkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markers [REASON]",
		Short: "Show plot marker styles for order reason codes",
		Long: `Show the marker style used when plotting orders on a price chart.

Each reason code maps to a symbol, color and size. With a REASON argument,
shows the style for that code only.`,
		Example: `  tradekit markers
  tradekit markers "enter long"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if len(args) == 1 {
				rc := models.ReasonCode(args[0])
				if !knownReason(rc) {
					return errors.Wrapf(errors.ErrNotFound, "reason %q", args[0])
				}
				style := report.MarkerFor(rc)
				if output.IsJSON() {
					return output.JSON(markerRow{
						Reason: string(rc),
						Symbol: style.Symbol,
						Color:  style.Color,
						Size:   style.Size,
					})
				}
				output.Printf("%s  %s (%s, size %d)\n",
					colorizeMarker(style.Symbol, style.Color), rc, style.Color, style.Size)
				return nil
			}

			markers := report.Markers()
			if output.IsJSON() {
				rows := make([]markerRow, 0, len(markers))
				for _, m := range markers {
					rows = append(rows, markerRow{
						Reason: string(m.Reason),
						Symbol: m.Style.Symbol,
						Color:  m.Style.Color,
						Size:   m.Style.Size,
					})
				}
				return output.JSON(rows)
			}

			color.Cyan("Plot Markers")
			table := NewTable(output, "REASON", "MARKER", "COLOR", "SIZE")
			for _, m := range markers {
				table.AddRow(string(m.Reason),
					colorizeMarker(m.Style.Symbol, m.Style.Color),
					m.Style.Color,
					strconv.Itoa(m.Style.Size))
			}
			table.Render()
			return nil
		},
	}
}
