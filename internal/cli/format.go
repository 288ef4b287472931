// Package cli provides the command-line interface for the toolkit.
package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatQty formats a signed quantity. Quantities are floats but usually
// whole numbers; %g keeps 100 as "100" and 0.5 as "0.5".
func FormatQty(qty float64) string {
	return fmt.Sprintf("%g", qty)
}

// FormatPrice formats a price to six significant digits, matching the
// entity summaries.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.6g", price)
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl float64) string {
	sign := ""
	if pnl > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f", sign, pnl)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatTimestamp formats a timestamp the way entity summaries do.
// The zero time renders as "-".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}
