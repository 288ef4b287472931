package models

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"tradekit/internal/errors"
)

func propContract(symbol string) (*Contract, error) {
	reg := NewRegistry()
	g, err := reg.NewContractGroup("G")
	if err != nil {
		return nil, err
	}
	return NewContract(g, symbol)
}

func qtySign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Property: A sequence of same-sign partial fills never flips the sign of
// the remaining quantity, never grows its magnitude, and the order reports
// FILLED exactly when the remainder snapped to zero.
func TestProperty_FillsShrinkTowardZero(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("fills shrink the remainder toward zero", prop.ForAll(
		func(qty float64, sell bool, fractions []float64) bool {
			if sell {
				qty = -qty
			}
			c, err := propContract("SYM")
			if err != nil {
				return false
			}
			o, err := NewMarketOrder(c, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), qty)
			if err != nil {
				return false
			}

			origSign := qtySign(qty)
			prev := math.Abs(qty)
			for _, f := range fractions {
				if o.Status() == OrderStatusFilled {
					break
				}
				if err := o.Fill(o.Qty() * f); err != nil {
					return false
				}
				remaining := math.Abs(o.Qty())
				if remaining > prev {
					return false
				}
				if s := qtySign(o.Qty()); s != 0 && s != origSign {
					return false
				}
				switch o.Status() {
				case OrderStatusFilled:
					if o.Qty() != 0 {
						return false
					}
				case OrderStatusPartiallyFilled:
					if remaining <= fillTolerance {
						return false
					}
				default:
					return false
				}
				prev = remaining
			}
			return true
		},
		gen.Float64Range(0.5, 1e6),
		gen.Bool(),
		gen.SliceOfN(8, gen.Float64Range(0, 1)),
	))

	properties.TestingRun(t)
}

// Property: Opposite-sign and oversized fills are always rejected and leave
// the order untouched.
func TestProperty_BadFillsRejected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("bad fills change nothing", prop.ForAll(
		func(qty float64, sell bool) bool {
			if sell {
				qty = -qty
			}
			c, err := propContract("SYM")
			if err != nil {
				return false
			}
			o, err := NewMarketOrder(c, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), qty)
			if err != nil {
				return false
			}

			if err := o.Fill(-qty / 2); !errors.Is(err, errors.ErrInvalidArgument) {
				return false
			}
			if err := o.Fill(qty * 2); !errors.Is(err, errors.ErrInvalidArgument) {
				return false
			}
			return o.Status() == OrderStatusOpen && o.Qty() == qty
		},
		gen.Float64Range(1, 1e6),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: Order constructors reject NaN, infinite and zero quantities for
// every variant.
func TestProperty_DegenerateQuantitiesRejected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	ts := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("degenerate quantities never construct", prop.ForAll(
		func(bad float64, variant int) bool {
			c, err := propContract("SYM")
			if err != nil {
				return false
			}
			switch variant {
			case 0:
				_, err = NewMarketOrder(c, ts, bad)
			case 1:
				_, err = NewLimitOrder(c, ts, bad, 10)
			case 2:
				_, err = NewStopLimitOrder(c, ts, bad, 9.5, 9.4)
			case 3:
				_, err = NewRollOrder(c, ts, bad, 10)
			default:
				_, err = NewRollOrder(c, ts, 10, bad)
			}
			return errors.Is(err, errors.ErrInvalidArgument)
		},
		gen.OneConstOf(math.NaN(), math.Inf(1), math.Inf(-1), 0.0),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}

// Property: The volume-weighted mid stays inside the quoted spread whenever
// any size is quoted, and is NaN when both sizes are zero.
func TestProperty_VWMidStaysInsideQuote(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("vw mid bounded by bid and ask", prop.ForAll(
		func(bid, width float64, bidSize, askSize int) bool {
			p := NewPrice(ts, bid, bid+width, bidSize, askSize)
			v := p.VWMid()
			if bidSize+askSize == 0 {
				return math.IsNaN(v)
			}
			return v >= bid-1e-9 && v <= bid+width+1e-9
		},
		gen.Float64Range(0.01, 10000),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 5000),
		gen.IntRange(0, 5000),
	))

	properties.TestingRun(t)
}

// Property: A symbol registers exactly once per registry and is free again
// after ResetSymbols.
func TestProperty_SymbolsClaimedOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("second registration fails until reset", prop.ForAll(
		func(symbol string) bool {
			if strings.TrimSpace(symbol) == "" {
				return true
			}
			reg := NewRegistry()
			g, err := reg.NewContractGroup("G")
			if err != nil {
				return false
			}
			if _, err := NewContract(g, symbol); err != nil {
				return false
			}
			if _, err := NewContract(g, symbol); !errors.Is(err, errors.ErrDuplicateName) {
				return false
			}
			reg.ResetSymbols()
			_, err = NewContract(g, symbol)
			return err == nil
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
