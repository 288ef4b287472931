package models

import (
	"math"
	"testing"
	"time"

	"tradekit/internal/errors"
)

func newTestContract(t *testing.T, symbol string) *Contract {
	t.Helper()
	g := newTestGroup(t, "test")
	c, err := NewContract(g, symbol)
	if err != nil {
		t.Fatalf("Failed to create contract %s: %v", symbol, err)
	}
	return c
}

var orderTime = time.Date(2019, 1, 1, 14, 59, 0, 0, time.UTC)

// TestOrderDefaults tests the initial state of a freshly created order.
func TestOrderDefaults(t *testing.T) {
	c := newTestContract(t, "IBM")
	o, err := NewMarketOrder(c, orderTime, 100)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	if o.Status() != OrderStatusOpen {
		t.Errorf("Status() = %v, want OPEN", o.Status())
	}
	if o.Qty() != 100 {
		t.Errorf("Qty() = %v, want 100", o.Qty())
	}
	if o.Reason != ReasonNone {
		t.Errorf("Reason = %v, want none", o.Reason)
	}
	if o.TimeInForce != TimeInForceFOK {
		t.Errorf("TimeInForce = %v, want FOK", o.TimeInForce)
	}
	if !o.IsOpen() {
		t.Error("IsOpen() = false for a fresh order")
	}
	if o.Type() != OrderTypeMarket {
		t.Errorf("Type() = %v, want MARKET", o.Type())
	}
}

// TestOrderOptions tests reason, time-in-force and property seeding.
func TestOrderOptions(t *testing.T) {
	c := newTestContract(t, "IBM")
	o, err := NewMarketOrder(c, orderTime, -200,
		WithReason(ReasonExitLong),
		WithTimeInForce(TimeInForceGTC),
		WithOrderProperties(Properties{"algo": StringValue("twap")}),
	)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if o.Reason != ReasonExitLong {
		t.Errorf("Reason = %v, want exit long", o.Reason)
	}
	if o.TimeInForce != TimeInForceGTC {
		t.Errorf("TimeInForce = %v, want GTC", o.TimeInForce)
	}
	if v, ok := o.Properties["algo"].Str(); !ok || v != "twap" {
		t.Errorf("algo property = %q, %v, want twap, true", v, ok)
	}
}

// TestOrderConstructorValidation tests the construction-time quantity and
// argument preconditions for every variant.
func TestOrderConstructorValidation(t *testing.T) {
	c := newTestContract(t, "IBM")

	testCases := []struct {
		name   string
		create func() (Order, error)
	}{
		{"market nil contract", func() (Order, error) { return NewMarketOrder(nil, orderTime, 100) }},
		{"market zero time", func() (Order, error) { return NewMarketOrder(c, time.Time{}, 100) }},
		{"market zero qty", func() (Order, error) { return NewMarketOrder(c, orderTime, 0) }},
		{"market nan qty", func() (Order, error) { return NewMarketOrder(c, orderTime, math.NaN()) }},
		{"market inf qty", func() (Order, error) { return NewMarketOrder(c, orderTime, math.Inf(-1)) }},
		{"limit zero qty", func() (Order, error) { return NewLimitOrder(c, orderTime, 0, 10.5) }},
		{"limit nan price", func() (Order, error) { return NewLimitOrder(c, orderTime, 100, math.NaN()) }},
		{"limit inf price", func() (Order, error) { return NewLimitOrder(c, orderTime, 100, math.Inf(1)) }},
		{"stop nan qty", func() (Order, error) { return NewStopLimitOrder(c, orderTime, math.NaN(), 9.5, 9.4) }},
		{"stop nan trigger", func() (Order, error) { return NewStopLimitOrder(c, orderTime, 100, math.NaN(), 9.4) }},
		{"stop inf limit", func() (Order, error) { return NewStopLimitOrder(c, orderTime, 100, 9.5, math.Inf(1)) }},
		{"roll zero close", func() (Order, error) { return NewRollOrder(c, orderTime, 0, 10) }},
		{"roll zero reopen", func() (Order, error) { return NewRollOrder(c, orderTime, 10, 0) }},
		{"roll nan reopen", func() (Order, error) { return NewRollOrder(c, orderTime, 10, math.NaN()) }},
		{"roll inf close", func() (Order, error) { return NewRollOrder(c, orderTime, math.Inf(1), 10) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.create(); !errors.Is(err, errors.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}

	// NaN limit on a stop order means market-when-triggered and is legal.
	if _, err := NewStopLimitOrder(c, orderTime, 100, 9.5, math.NaN()); err != nil {
		t.Errorf("stop order with NaN limit: err = %v, want nil", err)
	}
}

// TestOrderFillLifecycle tests partial fills, the completion tolerance and
// the quantity bookkeeping.
func TestOrderFillLifecycle(t *testing.T) {
	c := newTestContract(t, "IBM")
	o, err := NewMarketOrder(c, orderTime, 100)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	if err := o.Fill(40); err != nil {
		t.Fatalf("Fill(40): %v", err)
	}
	if o.Status() != OrderStatusPartiallyFilled || o.Qty() != 60 {
		t.Errorf("after Fill(40): status %v qty %v, want PARTIALLY_FILLED 60", o.Status(), o.Qty())
	}

	if err := o.Fill(60); err != nil {
		t.Fatalf("Fill(60): %v", err)
	}
	if o.Status() != OrderStatusFilled || o.Qty() != 0 {
		t.Errorf("after Fill(60): status %v qty %v, want FILLED 0", o.Status(), o.Qty())
	}
	if o.IsOpen() {
		t.Error("IsOpen() = true after complete fill")
	}
}

// TestOrderFillTolerance tests that a dust remainder within tolerance
// counts as filled and snaps to exactly zero, while anything larger stays
// partially filled.
func TestOrderFillTolerance(t *testing.T) {
	c := newTestContract(t, "IBM")

	dust, err := NewMarketOrder(c, orderTime, 1.0000000001)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if err := dust.Fill(1.0); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if dust.Status() != OrderStatusFilled {
		t.Errorf("status = %v with 1e-10 remainder, want FILLED", dust.Status())
	}
	if dust.Qty() != 0 {
		t.Errorf("Qty() = %v, want exactly 0", dust.Qty())
	}

	coarse, err := NewMarketOrder(c, orderTime, 1.001)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if err := coarse.Fill(1.0); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if coarse.Status() != OrderStatusPartiallyFilled {
		t.Errorf("status = %v with 1e-3 remainder, want PARTIALLY_FILLED", coarse.Status())
	}

	// Draining the exact remainder also completes.
	if err := coarse.Fill(coarse.Qty()); err != nil {
		t.Fatalf("final fill: %v", err)
	}
	if coarse.Status() != OrderStatusFilled || coarse.Qty() != 0 {
		t.Errorf("status %v qty %v after draining fill, want FILLED 0", coarse.Status(), coarse.Qty())
	}
}

// TestOrderFillValidation tests sign, magnitude and state guards on Fill.
func TestOrderFillValidation(t *testing.T) {
	c := newTestContract(t, "IBM")

	sell, err := NewMarketOrder(c, orderTime, -100)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	if err := sell.Fill(10); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("opposite-sign fill: err = %v, want ErrInvalidArgument", err)
	}
	if err := sell.Fill(-150); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("oversized fill: err = %v, want ErrInvalidArgument", err)
	}
	if err := sell.Fill(math.NaN()); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("NaN fill: err = %v, want ErrInvalidArgument", err)
	}
	if sell.Status() != OrderStatusOpen || sell.Qty() != -100 {
		t.Errorf("rejected fills mutated the order: status %v qty %v", sell.Status(), sell.Qty())
	}

	// Zero fill is legal and moves an open order to PARTIALLY_FILLED.
	if err := sell.Fill(0); err != nil {
		t.Fatalf("Fill(0): %v", err)
	}
	if sell.Status() != OrderStatusPartiallyFilled || sell.Qty() != -100 {
		t.Errorf("after Fill(0): status %v qty %v, want PARTIALLY_FILLED -100", sell.Status(), sell.Qty())
	}

	if err := sell.FillAll(); err != nil {
		t.Fatalf("FillAll: %v", err)
	}
	if err := sell.Fill(-1); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("fill after FILLED: err = %v, want ErrInvalidState", err)
	}

	// Fills are rejected while a cancel is pending.
	pending, err := NewMarketOrder(c, orderTime, 50)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if err := pending.RequestCancel(); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	if err := pending.Fill(10); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("fill while CANCEL_REQUESTED: err = %v, want ErrInvalidState", err)
	}
}

// TestOrderCancelLifecycle tests the cancel paths and the terminal-state
// guards.
func TestOrderCancelLifecycle(t *testing.T) {
	c := newTestContract(t, "IBM")

	o, err := NewMarketOrder(c, orderTime, 100)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if err := o.Fill(30); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := o.RequestCancel(); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	if o.Status() != OrderStatusCancelRequested {
		t.Errorf("status = %v, want CANCEL_REQUESTED", o.Status())
	}
	if !o.IsOpen() {
		t.Error("IsOpen() = false while CANCEL_REQUESTED")
	}
	if err := o.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if o.Status() != OrderStatusCancelled {
		t.Errorf("status = %v, want CANCELLED", o.Status())
	}
	if o.Qty() != 70 {
		t.Errorf("Qty() = %v after cancel, want remaining 70", o.Qty())
	}

	// Terminal states allow no transitions out.
	if err := o.Cancel(); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("cancel of CANCELLED: err = %v, want ErrInvalidState", err)
	}
	if err := o.RequestCancel(); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("request cancel of CANCELLED: err = %v, want ErrInvalidState", err)
	}

	filled, err := NewMarketOrder(c, orderTime, 10)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	if err := filled.FillAll(); err != nil {
		t.Fatalf("FillAll: %v", err)
	}
	if err := filled.RequestCancel(); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("request cancel of FILLED: err = %v, want ErrInvalidState", err)
	}
	if err := filled.Cancel(); !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("cancel of FILLED: err = %v, want ErrInvalidState", err)
	}

	var stateErr *errors.InvalidStateError
	if err := filled.Cancel(); !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want *InvalidStateError", err)
	}
	if stateErr.Status != string(OrderStatusFilled) {
		t.Errorf("InvalidStateError.Status = %q, want FILLED", stateErr.Status)
	}
}

// TestOrderVariantsThroughInterface tests that the shared core reached via
// Base is the live one and that the union type-switches cleanly.
func TestOrderVariantsThroughInterface(t *testing.T) {
	c := newTestContract(t, "IBM")

	lo, err := NewLimitOrder(c, orderTime, 100, 10.5, WithReason(ReasonEnterLong))
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	so, err := NewStopLimitOrder(c, orderTime, -100, 9.5, math.NaN(), WithReason(ReasonExitLong))
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	ro, err := NewRollOrder(c, orderTime, -10, -10, WithReason(ReasonRollFuture))
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	mo, err := NewMarketOrder(c, orderTime, 10)
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	orders := []Order{mo, lo, so, ro}
	wantTypes := []OrderType{OrderTypeMarket, OrderTypeLimit, OrderTypeStopLimit, OrderTypeRoll}
	for i, ord := range orders {
		if ord.Type() != wantTypes[i] {
			t.Errorf("orders[%d].Type() = %v, want %v", i, ord.Type(), wantTypes[i])
		}
		switch v := ord.(type) {
		case *MarketOrder:
		case *LimitOrder:
			if v.LimitPrice != 10.5 {
				t.Errorf("LimitPrice = %v, want 10.5", v.LimitPrice)
			}
		case *StopLimitOrder:
			if v.TriggerPrice != 9.5 || !math.IsNaN(v.LimitPrice) {
				t.Errorf("stop fields = %v/%v, want 9.5/NaN", v.TriggerPrice, v.LimitPrice)
			}
			if v.Triggered {
				t.Error("Triggered = true on a fresh stop order")
			}
		case *RollOrder:
			if v.CloseQty != -10 || v.ReopenQty != -10 {
				t.Errorf("roll legs = %v/%v, want -10/-10", v.CloseQty, v.ReopenQty)
			}
		default:
			t.Errorf("unexpected variant %T", v)
		}
	}

	// A fill through the interface core is visible on the variant.
	if err := lo.Base().Fill(100); err != nil {
		t.Fatalf("Fill through Base: %v", err)
	}
	if lo.Status() != OrderStatusFilled {
		t.Errorf("variant status = %v after fill through Base, want FILLED", lo.Status())
	}
}

// TestOrderString tests the summary lines for every variant, including the
// reason and property clauses.
func TestOrderString(t *testing.T) {
	g := newTestGroup(t, "futures")
	ibm, err := NewContract(g, "IBM")
	if err != nil {
		t.Fatalf("Failed to create contract: %v", err)
	}
	esh6, err := NewContract(g, "ESH6")
	if err != nil {
		t.Fatalf("Failed to create contract: %v", err)
	}
	rollTime := time.Date(2019, 3, 1, 10, 0, 0, 0, time.UTC)

	mo, _ := NewMarketOrder(ibm, orderTime, 100)
	moReason, _ := NewMarketOrder(ibm, orderTime, 100, WithReason(ReasonEnterLong))
	moProps, _ := NewMarketOrder(ibm, orderTime, 100, WithOrderProperties(Properties{"algo": StringValue("twap")}))
	lo, _ := NewLimitOrder(ibm, orderTime, -50, 10.5)
	so, _ := NewStopLimitOrder(ibm, orderTime, 100, 9.5, math.NaN())
	soLmt, _ := NewStopLimitOrder(ibm, orderTime, 100, 9.5, 9.4)
	ro, _ := NewRollOrder(esh6, rollTime, -10, -10, WithReason(ReasonRollFuture))

	testCases := []struct {
		name     string
		order    Order
		expected string
	}{
		{"market", mo, "IBM 2019-01-01 14:59:00 qty: 100 OPEN"},
		{"market with reason", moReason, "IBM 2019-01-01 14:59:00 qty: 100 enter long OPEN"},
		{"market with props", moProps, "IBM 2019-01-01 14:59:00 qty: 100 algo: twap OPEN"},
		{"limit", lo, "IBM 2019-01-01 14:59:00 qty: -50 lmt_prc: 10.5 OPEN"},
		{"stop market", so, "IBM 2019-01-01 14:59:00 qty: 100 trigger_prc: 9.5 limit_prc: NaN OPEN"},
		{"stop limit", soLmt, "IBM 2019-01-01 14:59:00 qty: 100 trigger_prc: 9.5 limit_prc: 9.4 OPEN"},
		{"roll keeps reason", ro, "ESH6 2019-03-01 10:00:00 close_qty: -10 reopen_qty: -10 roll future OPEN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.order.String(); got != tc.expected {
				t.Errorf("String() = %q, want %q", got, tc.expected)
			}
		})
	}

	// Status changes show up in the summary.
	if err := mo.FillAll(); err != nil {
		t.Fatalf("FillAll: %v", err)
	}
	if got, want := mo.String(), "IBM 2019-01-01 14:59:00 qty: 0 FILLED"; got != want {
		t.Errorf("String() after fill = %q, want %q", got, want)
	}
}
