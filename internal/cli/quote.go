// Package cli provides the command-line interface for the toolkit.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradekit/internal/logging"
	"tradekit/internal/models"
)

// addQuoteCommands adds quote inspection commands.
func addQuoteCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
}

// quoteResult is the JSON shape of a quote inspection. Non-finite values
// are encoded as null because encoding/json rejects NaN and infinity.
type quoteResult struct {
	Symbol  string   `json:"symbol"`
	Bid     *float64 `json:"bid"`
	Ask     *float64 `json:"ask"`
	BidSize int      `json:"bid_size"`
	AskSize int      `json:"ask_size"`
	Mid     *float64 `json:"mid"`
	VWMid   *float64 `json:"vwmid"`
	Spread  *float64 `json:"spread"`
	Valid   bool     `json:"valid"`
}

// jsonFloat returns a pointer to f, or nil when f is not finite.
func jsonFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func newQuoteCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "quote SYMBOL BID ASK BIDSIZE ASKSIZE",
		Short: "Compute mid, weighted mid and spread for a bid/ask snapshot",
		Long: `Compute the derived statistics of a single bid/ask snapshot.

Pass "nan" for an unknown side. The weighted mid weights each side by the
size quoted on the opposite side, so a thin ask pulls the value toward the
bid.`,
		Example: `  tradekit quote IBM 15.25 15.75 189 300
  tradekit quote ESH4 4510.25 nan 12 0 --json`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := args[0]

			bid, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parsing bid %q: %w", args[1], err)
			}
			ask, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("parsing ask %q: %w", args[2], err)
			}
			bidSize, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("parsing bid size %q: %w", args[3], err)
			}
			askSize, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("parsing ask size %q: %w", args[4], err)
			}
			if bidSize < 0 || askSize < 0 {
				return fmt.Errorf("sizes must not be negative: bid size %d, ask size %d", bidSize, askSize)
			}

			ts := time.Now()
			if at != "" {
				parsed, err := time.Parse("2006-01-02 15:04:05", at)
				if err != nil {
					return fmt.Errorf("parsing --at %q: %w", at, err)
				}
				ts = parsed
			}

			price := models.NewPrice(ts, bid, ask, bidSize, askSize)
			logging.LogQuote(app.Logger, symbol, bid, ask, bidSize, askSize)

			if output.IsJSON() {
				return output.JSON(quoteResult{
					Symbol:  symbol,
					Bid:     jsonFloat(price.Bid),
					Ask:     jsonFloat(price.Ask),
					BidSize: price.BidSize,
					AskSize: price.AskSize,
					Mid:     jsonFloat(price.Mid()),
					VWMid:   jsonFloat(price.VWMid()),
					Spread:  jsonFloat(price.Spread()),
					Valid:   price.Valid,
				})
			}

			output.Bold("Quote %s", symbol)
			output.Printf("  Time:   %s\n", FormatTimestamp(price.Timestamp))
			output.Printf("  Bid:    %s x %d\n", FormatPrice(price.Bid), price.BidSize)
			output.Printf("  Ask:    %s x %d\n", FormatPrice(price.Ask), price.AskSize)
			output.Printf("  Mid:    %s\n", FormatPrice(price.Mid()))
			output.Printf("  VWMid:  %s\n", FormatPrice(price.VWMid()))
			output.Printf("  Spread: %s\n", FormatPrice(price.Spread()))
			if price.Ask < price.Bid {
				output.Warning("crossed quote: bid %s above ask %s", FormatPrice(price.Bid), FormatPrice(price.Ask))
			}
			if price.BidSize+price.AskSize == 0 {
				output.Info("no size on either side; weighted mid is undefined")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", `snapshot timestamp as "2006-01-02 15:04:05" (default: now)`)

	return cmd
}
