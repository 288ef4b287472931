// Package cli provides the command-line interface for the toolkit.
package cli

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"tradekit/internal/errors"
	"tradekit/internal/logging"
	"tradekit/internal/models"
	"tradekit/internal/report"
)

// addCheckCommands adds the self-check command.
func addCheckCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCheckCmd(app))
}

// checkResult summarizes one self-check run.
type checkResult struct {
	Run        int      `json:"run"`
	Contracts  int      `json:"contracts"`
	Quotes     int      `json:"quotes"`
	Orders     int      `json:"orders"`
	Fills      int      `json:"fills"`
	Trades     int      `json:"trades"`
	RoundTrips int      `json:"round_trips"`
	NetPnL     float64  `json:"net_pnl"`
	ElapsedMS  float64  `json:"elapsed_ms"`
	Violations []string `json:"violations,omitempty"`
}

func (r checkResult) ok() bool {
	return len(r.Violations) == 0
}

func newCheckCmd(app *App) *cobra.Command {
	var (
		runs     int
		parallel int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run built-in consistency checks",
		Long: `Run the built-in consistency checks over the whole entity lifecycle:
registry namespaces, quote statistics, order fills and cancels, trades
and round-trip pairing.

Each run builds its own registry from a seeded random source, so runs
are independent and reproducible. Use --debug to trace every synthetic
order, fill and trade.`,
		Example: `  tradekit check
  tradekit check --runs 100 --parallel 8 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1")
			}

			debug, _ := cmd.Flags().GetBool("debug")
			runLogger := app.Logger
			if !debug {
				// Synthetic order traffic is only worth tracing under --debug.
				runLogger = runLogger.Level(zerolog.WarnLevel)
			}

			app.Logger.Info().
				Int("runs", runs).
				Int("parallel", parallel).
				Int64("seed", seed).
				Msg("Starting checks")

			results := make([]checkResult, runs)
			jobs := make(chan int)

			workers := parallel
			if workers > runs {
				workers = runs
			}
			var wg conc.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Go(func() {
					for run := range jobs {
						results[run] = runCheck(run, seed, logging.WithRun(runLogger, run))
					}
				})
			}
			for run := 0; run < runs; run++ {
				jobs <- run
			}
			close(jobs)
			wg.Wait()

			failed := 0
			for _, r := range results {
				if !r.ok() {
					failed++
				}
			}

			if output.IsJSON() {
				if err := output.JSON(map[string]interface{}{
					"seed":   seed,
					"runs":   results,
					"passed": failed == 0,
				}); err != nil {
					return err
				}
			} else {
				renderCheckResults(output, results)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d runs failed", failed, runs)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&runs, "runs", app.Config.Check.Runs, "number of check runs")
	cmd.Flags().IntVar(&parallel, "parallel", app.Config.Check.Parallel, "number of runs executed concurrently")
	cmd.Flags().Int64Var(&seed, "seed", app.Config.Check.Seed, "base seed for the random source")

	return cmd
}

func renderCheckResults(output *Output, results []checkResult) {
	table := NewTable(output, "RUN", "CONTRACTS", "QUOTES", "ORDERS", "FILLS", "TRADES", "ROUND TRIPS", "NET PNL", "TIME", "STATUS")
	for _, r := range results {
		status := output.Green("✓ pass")
		if !r.ok() {
			status = output.Red(fmt.Sprintf("✗ %d violations", len(r.Violations)))
		}
		table.AddRow(
			strconv.Itoa(r.Run),
			strconv.Itoa(r.Contracts),
			strconv.Itoa(r.Quotes),
			strconv.Itoa(r.Orders),
			strconv.Itoa(r.Fills),
			strconv.Itoa(r.Trades),
			strconv.Itoa(r.RoundTrips),
			output.FormatPnL(r.NetPnL),
			FormatDuration(time.Duration(r.ElapsedMS*float64(time.Millisecond))),
			status,
		)
	}
	table.Render()
	output.Println()

	failed := 0
	for _, r := range results {
		if r.ok() {
			continue
		}
		failed++
		for _, v := range r.Violations {
			output.Error("run %d: %s", r.Run, v)
		}
	}
	if failed == 0 {
		output.Success("✓ all %d runs passed", len(results))
	} else {
		output.Error("✗ %d of %d runs failed", failed, len(results))
	}
}

// checker accumulates state and violations for one run.
type checker struct {
	rng    *rand.Rand
	logger zerolog.Logger
	clock  time.Time
	res    *checkResult
}

func (c *checker) violate(format string, args ...interface{}) {
	c.res.Violations = append(c.res.Violations, fmt.Sprintf(format, args...))
}

// now steps the synthetic clock so every entity gets a distinct timestamp.
func (c *checker) now() time.Time {
	c.clock = c.clock.Add(time.Minute)
	return c.clock
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

// runCheck exercises the entity lifecycle end to end and records every
// invariant violation it finds.
func runCheck(run int, seed int64, logger zerolog.Logger) checkResult {
	start := time.Now()
	res := checkResult{Run: run}
	c := &checker{
		rng:    rand.New(rand.NewSource(seed + int64(run))),
		logger: logger,
		clock:  time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		res:    &res,
	}

	registry := models.NewRegistry()
	c.checkRegistry(registry)
	c.checkQuotes()
	c.checkOrders(registry)
	c.checkRoundTrips(registry)
	c.checkMarkers()
	c.checkReset(registry)

	res.ElapsedMS = float64(time.Since(start).Microseconds()) / 1000.0
	return res
}

func (c *checker) checkRegistry(registry *models.Registry) {
	stocks, err := registry.NewContractGroup("stocks")
	if err != nil {
		c.violate("creating stocks group: %v", err)
		return
	}
	futures, err := registry.NewContractGroup("futures")
	if err != nil {
		c.violate("creating futures group: %v", err)
		return
	}

	if _, err := registry.NewContractGroup("stocks"); !errors.Is(err, errors.ErrDuplicateName) {
		c.violate("duplicate group name accepted: %v", err)
	}
	if _, err := registry.NewContractGroup(""); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("blank group name accepted: %v", err)
	}

	if _, err := models.NewContract(stocks, "IBM"); err != nil {
		c.violate("creating IBM: %v", err)
	}
	if _, err := models.NewContract(stocks, "MSFT"); err != nil {
		c.violate("creating MSFT: %v", err)
	}
	expiry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if _, err := models.NewContract(futures, "ESH4", models.WithExpiry(expiry), models.WithMultiplier(50)); err != nil {
		c.violate("creating ESH4: %v", err)
	}

	// Symbols form one namespace per registry, even across groups.
	if _, err := models.NewContract(futures, "IBM"); !errors.Is(err, errors.ErrDuplicateName) {
		c.violate("duplicate symbol accepted: %v", err)
	}
	if _, err := models.NewContract(stocks, "BAD", models.WithMultiplier(0)); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("zero multiplier accepted: %v", err)
	}
	if _, err := models.NewContract(stocks, "BAD", models.WithExpiry(time.Time{})); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("zero expiry accepted: %v", err)
	}

	// Failed creates must leave the namespace untouched.
	if _, ok := registry.Contract("BAD"); ok {
		c.violate("failed create registered symbol BAD")
	}

	if got, ok := registry.Contract("IBM"); !ok || got.Symbol() != "IBM" {
		c.violate("registry lookup of IBM failed")
	}
	if got, ok := stocks.Contract("MSFT"); !ok || got.Symbol() != "MSFT" {
		c.violate("group lookup of MSFT failed")
	}
	if _, ok := registry.Contract("missing"); ok {
		c.violate("lookup of unregistered symbol succeeded")
	}

	if got := len(registry.Contracts()); got != 3 {
		c.violate("expected 3 contracts, got %d", got)
	}
	if got := len(registry.Groups()); got != 2 {
		c.violate("expected 2 groups, got %d", got)
	}

	c.res.Contracts = len(registry.Contracts())
	c.logger.Debug().Int("contracts", c.res.Contracts).Msg("Registry checks done")
}

func (c *checker) checkQuotes() {
	const eps = 1e-9

	for i := 0; i < 10; i++ {
		bid := 50 + 100*c.rng.Float64()
		ask := bid + c.rng.Float64()
		bidSize := c.rng.Intn(500) + 1
		askSize := c.rng.Intn(500) + 1

		p := models.NewPrice(c.now(), bid, ask, bidSize, askSize)
		c.res.Quotes++
		logging.LogQuote(c.logger, "IBM", p.Bid, p.Ask, p.BidSize, p.AskSize)

		if mid := p.Mid(); mid < bid-eps || mid > ask+eps {
			c.violate("mid %g outside [%g, %g]", mid, bid, ask)
		}
		if vwmid := p.VWMid(); vwmid < bid-eps || vwmid > ask+eps {
			c.violate("vwmid %g outside [%g, %g]", vwmid, bid, ask)
		}
		if spread := p.Spread(); spread < 0 {
			c.violate("negative spread %g for bid %g ask %g", spread, bid, ask)
		}
		if !p.Valid {
			c.violate("NewPrice returned an invalid quote")
		}
	}

	// Crossed quotes have no spread.
	crossed := models.NewPrice(c.now(), 101, 100, 10, 10)
	c.res.Quotes++
	if !math.IsNaN(crossed.Spread()) {
		c.violate("crossed quote spread = %g, want NaN", crossed.Spread())
	}

	// Zero total size has no weighted mid.
	empty := models.NewPrice(c.now(), 100, 101, 0, 0)
	c.res.Quotes++
	if !math.IsNaN(empty.VWMid()) {
		c.violate("zero-size vwmid = %g, want NaN", empty.VWMid())
	}

	invalid := models.InvalidPrice()
	if invalid.Valid {
		c.violate("InvalidPrice is marked valid")
	}
	if !strings.HasSuffix(invalid.String(), " invalid") {
		c.violate("invalid quote renders as %q", invalid.String())
	}
}

func (c *checker) checkOrders(registry *models.Registry) {
	ibm, ok := registry.Contract("IBM")
	if !ok {
		c.violate("IBM missing before order checks")
		return
	}

	// Fill a buy in random whole-number chunks.
	buy, err := models.NewMarketOrder(ibm, c.now(), 100, models.WithReason(models.ReasonEnterLong))
	if err != nil {
		c.violate("creating market order: %v", err)
		return
	}
	c.res.Orders++
	logging.LogOrder(c.logger, ibm.Symbol(), string(buy.Type()), string(buy.Status()), buy.Qty())

	for buy.Status() != models.OrderStatusFilled {
		remaining := int(buy.Qty())
		chunk := float64(c.rng.Intn(remaining) + 1)
		if err := buy.Fill(chunk); err != nil {
			c.violate("filling %g of %d: %v", chunk, remaining, err)
			return
		}
		c.res.Fills++
		logging.LogFill(c.logger, ibm.Symbol(), chunk, buy.Qty(), string(buy.Status()))
	}
	if qty := buy.Qty(); qty != 0 {
		c.violate("filled order has remaining qty %g", qty)
	}

	// A filled order accepts no further transitions.
	if err := buy.Fill(1); !errors.Is(err, errors.ErrInvalidState) {
		c.violate("fill on FILLED order: %v", err)
	}
	if err := buy.Cancel(); !errors.Is(err, errors.ErrInvalidState) {
		c.violate("cancel on FILLED order: %v", err)
	}

	// Sells carry negative quantities through the same lifecycle.
	sell, err := models.NewLimitOrder(ibm, c.now(), -50, 99.5, models.WithTimeInForce(models.TimeInForceGTC))
	if err != nil {
		c.violate("creating limit order: %v", err)
		return
	}
	c.res.Orders++
	if err := sell.Fill(-20); err != nil {
		c.violate("partial sell fill: %v", err)
	} else {
		c.res.Fills++
	}
	if got := sell.Status(); got != models.OrderStatusPartiallyFilled {
		c.violate("after partial fill status = %s", got)
	}
	if err := sell.Fill(5); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("fill against remaining sign: %v", err)
	}
	if err := sell.Fill(-31); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("overfill accepted: %v", err)
	}
	if err := sell.Fill(math.NaN()); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("NaN fill accepted: %v", err)
	}
	if err := sell.RequestCancel(); err != nil {
		c.violate("requesting cancel: %v", err)
	}
	if got := sell.Status(); got != models.OrderStatusCancelRequested {
		c.violate("after cancel request status = %s", got)
	}
	if !sell.IsOpen() {
		c.violate("CANCEL_REQUESTED order not open")
	}
	if err := sell.Fill(-30); !errors.Is(err, errors.ErrInvalidState) {
		c.violate("fill while cancel requested: %v", err)
	}
	if err := sell.Cancel(); err != nil {
		c.violate("cancelling: %v", err)
	}
	if got := sell.Status(); got != models.OrderStatusCancelled {
		c.violate("after cancel status = %s", got)
	}
	if err := sell.RequestCancel(); !errors.Is(err, errors.ErrInvalidState) {
		c.violate("cancel request on CANCELLED order: %v", err)
	}

	// A zero fill keeps the order working but marks it touched.
	touched, err := models.NewMarketOrder(ibm, c.now(), 5)
	if err != nil {
		c.violate("creating order for zero fill: %v", err)
		return
	}
	c.res.Orders++
	if err := touched.Fill(0); err != nil {
		c.violate("zero fill rejected: %v", err)
	} else {
		c.res.Fills++
	}
	if got := touched.Status(); got != models.OrderStatusPartiallyFilled {
		c.violate("after zero fill status = %s", got)
	}

	// Stop orders may leave the limit price open.
	stop, err := models.NewStopLimitOrder(ibm, c.now(), 10, 101.5, math.NaN())
	if err != nil {
		c.violate("creating stop order: %v", err)
		return
	}
	c.res.Orders++
	if stop.Triggered {
		c.violate("stop order born triggered")
	}
	if _, err := models.NewStopLimitOrder(ibm, c.now(), 10, math.NaN(), 101.5); !errors.Is(err, errors.ErrInvalidArgument) {
		c.violate("NaN trigger price accepted: %v", err)
	}
	if err := stop.FillAll(); err != nil {
		c.violate("filling stop order: %v", err)
	} else {
		c.res.Fills++
	}

	// Rolls drain their close leg.
	roll, err := models.NewRollOrder(ibm, c.now(), -100, 100, models.WithReason(models.ReasonRollFuture))
	if err != nil {
		c.violate("creating roll order: %v", err)
		return
	}
	c.res.Orders++
	if got := roll.Qty(); got != -100 {
		c.violate("roll working qty = %g, want -100", got)
	}
	if err := roll.FillAll(); err != nil {
		c.violate("filling roll order: %v", err)
	} else {
		c.res.Fills++
	}

	// A residue below tolerance snaps to exactly zero.
	tiny, err := models.NewMarketOrder(ibm, c.now(), 1, models.WithReason(models.ReasonExitLong))
	if err != nil {
		c.violate("creating tolerance order: %v", err)
		return
	}
	c.res.Orders++
	if err := tiny.Fill(1 - 5e-10); err != nil {
		c.violate("near-complete fill: %v", err)
	} else {
		c.res.Fills++
	}
	if got := tiny.Status(); got != models.OrderStatusFilled {
		c.violate("tolerance fill left status %s", got)
	}
	if got := tiny.Qty(); got != 0 {
		c.violate("tolerance fill left qty %g", got)
	}

	// Order summaries always end with the status.
	for _, o := range []models.Order{buy, sell, stop, roll} {
		if s := o.String(); !strings.HasSuffix(s, string(o.Base().Status())) {
			c.violate("summary %q missing status %s", s, o.Base().Status())
		}
	}
}

// trade creates a filled market order and its execution in one step.
func (c *checker) trade(contract *models.Contract, qty, price float64, reason models.ReasonCode, commission, fee float64) *models.Trade {
	ts := c.now()
	order, err := models.NewMarketOrder(contract, ts, qty, models.WithReason(reason))
	if err != nil {
		c.violate("creating order for %s: %v", contract.Symbol(), err)
		return nil
	}
	c.res.Orders++
	if err := order.FillAll(); err != nil {
		c.violate("filling order for %s: %v", contract.Symbol(), err)
		return nil
	}
	c.res.Fills++
	tr, err := models.NewTrade(contract, order, ts, qty, price,
		models.WithCommission(commission), models.WithFee(fee))
	if err != nil {
		c.violate("creating trade for %s: %v", contract.Symbol(), err)
		return nil
	}
	c.res.Trades++
	logging.LogTrade(c.logger, contract.Symbol(), qty, price, fee, commission)
	return tr
}

func (c *checker) addPnL(rts []models.RoundTripTrade) {
	c.res.RoundTrips += len(rts)
	for _, rt := range rts {
		c.res.NetPnL += rt.NetPnL
	}
}

func (c *checker) checkRoundTrips(registry *models.Registry) {
	msft, ok1 := registry.Contract("MSFT")
	esh4, ok2 := registry.Contract("ESH4")
	ibm, ok3 := registry.Contract("IBM")
	if !ok1 || !ok2 || !ok3 {
		c.violate("contracts missing before round trip checks")
		return
	}

	// Long round trip with pro-rated costs.
	enter := c.trade(msft, 100, 10, models.ReasonEnterLong, 1.0, 0.5)
	exit := c.trade(msft, -100, 12, models.ReasonExitLong, 2.0, 0)
	if enter == nil || exit == nil {
		return
	}
	rts, err := report.RoundTrips([]*models.Trade{enter, exit})
	if err != nil {
		c.violate("pairing long round trip: %v", err)
		return
	}
	if len(rts) != 1 {
		c.violate("long scenario produced %d round trips, want 1", len(rts))
		return
	}
	rt := rts[0]
	if rt.Qty != 100 || rt.EntryPrice != 10 || rt.ExitPrice != 12 {
		c.violate("long round trip mismatch: %s", rt)
	}
	if !approxEqual(rt.NetPnL, 196.5) {
		c.violate("long net pnl = %g, want 196.5", rt.NetPnL)
	}
	if rt.EntryReason != models.ReasonEnterLong || rt.ExitReason != models.ReasonExitLong {
		c.violate("round trip reasons %s -> %s", rt.EntryReason, rt.ExitReason)
	}
	c.addPnL(rts)

	// An oversized exit flips the position.
	f1 := c.trade(msft, 100, 10, models.ReasonEnterLong, 0, 0)
	f2 := c.trade(msft, -150, 11, models.ReasonExitLong, 0, 0)
	f3 := c.trade(msft, 50, 10.5, models.ReasonExitShort, 0, 0)
	if f1 == nil || f2 == nil || f3 == nil {
		return
	}
	flips, err := report.RoundTrips([]*models.Trade{f1, f2, f3})
	if err != nil {
		c.violate("pairing flip scenario: %v", err)
		return
	}
	if len(flips) != 2 {
		c.violate("flip scenario produced %d round trips, want 2", len(flips))
	} else {
		if flips[0].Qty != 100 || !approxEqual(flips[0].NetPnL, 100) {
			c.violate("flip long leg mismatch: %s", flips[0])
		}
		if flips[1].Qty != -50 || !approxEqual(flips[1].NetPnL, 25) {
			c.violate("flip short leg mismatch: %s", flips[1])
		}
	}
	c.addPnL(flips)

	// The contract multiplier scales the gross.
	m1 := c.trade(esh4, 2, 4500, models.ReasonEnterLong, 4.0, 0)
	m2 := c.trade(esh4, -2, 4510, models.ReasonExitLong, 4.0, 0)
	if m1 == nil || m2 == nil {
		return
	}
	futRts, err := report.RoundTrips([]*models.Trade{m1, m2})
	if err != nil {
		c.violate("pairing futures round trip: %v", err)
		return
	}
	if len(futRts) != 1 || !approxEqual(futRts[0].NetPnL, 992) {
		c.violate("futures round trip mismatch: %v", futRts)
	}
	c.addPnL(futRts)

	// A random walk flattened at the end conserves quantity and costs.
	var walk []*models.Trade
	var pos float64
	for i := 0; i < 8; i++ {
		qty := float64(c.rng.Intn(20) + 1)
		if c.rng.Intn(2) == 0 {
			qty = -qty
		}
		price := 95 + 10*c.rng.Float64()
		tr := c.trade(ibm, qty, price, models.ReasonNone, 0.1*math.Abs(qty), 0)
		if tr == nil {
			return
		}
		walk = append(walk, tr)
		pos += qty
	}
	if pos != 0 {
		tr := c.trade(ibm, -pos, 100, models.ReasonBacktestEnd, 0.1*math.Abs(pos), 0)
		if tr == nil {
			return
		}
		walk = append(walk, tr)
	}

	var bought, sold, costIn float64
	for _, tr := range walk {
		if tr.Qty() > 0 {
			bought += tr.Qty()
		} else {
			sold -= tr.Qty()
		}
		costIn += tr.Commission()
	}

	walkRts, err := report.RoundTrips(walk)
	if err != nil {
		c.violate("pairing random walk: %v", err)
		return
	}
	var matched, costOut float64
	for _, rt := range walkRts {
		if rt.Qty == 0 {
			c.violate("round trip with zero qty: %s", rt)
		}
		if rt.ExitTimestamp.Before(rt.EntryTimestamp) {
			c.violate("round trip exits before entry: %s", rt)
		}
		matched += math.Abs(rt.Qty)
		costOut += rt.EntryCommission + rt.ExitCommission
	}
	if bought != sold {
		c.violate("flattened walk bought %g, sold %g", bought, sold)
	}
	if matched != bought {
		c.violate("matched %g of %g bought", matched, bought)
	}
	if math.Abs(costOut-costIn) > 1e-6 {
		c.violate("commissions in %g, out %g", costIn, costOut)
	}
	c.addPnL(walkRts)
}

func (c *checker) checkMarkers() {
	for _, m := range report.Markers() {
		if m.Style.Symbol == "" || m.Style.Size <= 0 {
			c.violate("reason %q has a degenerate marker style", m.Reason)
		}
	}
	if got := report.MarkerFor("made up"); got != report.MarkerFor(models.ReasonNone) {
		c.violate("unknown reason does not fall back to the neutral marker")
	}
}

func (c *checker) checkReset(registry *models.Registry) {
	registry.Reset()
	if got := len(registry.Contracts()); got != 0 {
		c.violate("reset left %d contracts", got)
	}
	if got := len(registry.Groups()); got != 0 {
		c.violate("reset left %d groups", got)
	}

	// Names freed by the reset are reusable.
	stocks, err := registry.NewContractGroup("stocks")
	if err != nil {
		c.violate("recreating stocks after reset: %v", err)
		return
	}
	if _, err := models.NewContract(stocks, "IBM"); err != nil {
		c.violate("recreating IBM after reset: %v", err)
	}

	// Clearing symbols alone keeps groups usable.
	registry.ResetSymbols()
	if _, ok := registry.ContractGroup("stocks"); !ok {
		c.violate("symbol reset dropped groups")
	}
	if _, err := models.NewContract(stocks, "IBM"); err != nil {
		c.violate("reusing symbol after symbol reset: %v", err)
	}
}
