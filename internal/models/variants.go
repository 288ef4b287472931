package models

import (
	"fmt"
	"math"
	"time"

	"tradekit/internal/errors"
)

// OrderOption configures optional order attributes at creation.
type OrderOption func(*OrderBase) error

// WithReason tags the order with the signal that produced it.
func WithReason(rc ReasonCode) OrderOption {
	return func(o *OrderBase) error {
		o.Reason = rc
		return nil
	}
}

// WithTimeInForce overrides the default FOK time in force.
func WithTimeInForce(tif TimeInForce) OrderOption {
	return func(o *OrderBase) error {
		o.TimeInForce = tif
		return nil
	}
}

// WithOrderProperties seeds the order's property bag with a copy of p.
func WithOrderProperties(p Properties) OrderOption {
	return func(o *OrderBase) error {
		o.Properties = p.Clone()
		return nil
	}
}

func checkOrderQty(field string, qty float64) error {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty == 0 {
		return errors.NewInvalidArgumentError(field, qty, "quantity must be finite and nonzero")
	}
	return nil
}

func newOrderBase(c *Contract, timestamp time.Time, qty float64, opts []OrderOption) (OrderBase, error) {
	if c == nil {
		return OrderBase{}, errors.NewInvalidArgumentError("contract", nil, "contract is required")
	}
	if timestamp.IsZero() {
		return OrderBase{}, errors.NewInvalidArgumentError("timestamp", timestamp, "timestamp is required")
	}
	if err := checkOrderQty("qty", qty); err != nil {
		return OrderBase{}, err
	}
	base := OrderBase{
		Contract:    c,
		Timestamp:   timestamp,
		Reason:      ReasonNone,
		TimeInForce: TimeInForceFOK,
		qty:         qty,
		status:      OrderStatusOpen,
	}
	for _, opt := range opts {
		if err := opt(&base); err != nil {
			return OrderBase{}, err
		}
	}
	return base, nil
}

// MarketOrder executes at whatever price the market shows next.
type MarketOrder struct {
	OrderBase
}

// NewMarketOrder creates a market order for qty contracts, signed positive
// to buy and negative to sell.
func NewMarketOrder(c *Contract, timestamp time.Time, qty float64, opts ...OrderOption) (*MarketOrder, error) {
	base, err := newOrderBase(c, timestamp, qty, opts)
	if err != nil {
		return nil, err
	}
	return &MarketOrder{OrderBase: base}, nil
}

func (o *MarketOrder) Type() OrderType {
	return OrderTypeMarket
}

func (o *MarketOrder) String() string {
	return o.render(fmt.Sprintf("qty: %g", o.qty))
}

// LimitOrder executes at LimitPrice or better.
type LimitOrder struct {
	OrderBase
	LimitPrice float64
}

// NewLimitOrder creates a limit order for qty contracts at limitPrice.
func NewLimitOrder(c *Contract, timestamp time.Time, qty, limitPrice float64, opts ...OrderOption) (*LimitOrder, error) {
	base, err := newOrderBase(c, timestamp, qty, opts)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(limitPrice) || math.IsInf(limitPrice, 0) {
		return nil, errors.NewInvalidArgumentError("limitPrice", limitPrice, "limit price must be finite")
	}
	return &LimitOrder{OrderBase: base, LimitPrice: limitPrice}, nil
}

func (o *LimitOrder) Type() OrderType {
	return OrderTypeLimit
}

func (o *LimitOrder) String() string {
	return o.render(fmt.Sprintf("qty: %g lmt_prc: %g", o.qty, o.LimitPrice))
}

// StopLimitOrder sits dormant until price crosses TriggerPrice, then works
// as a market order when LimitPrice is NaN, or as a limit order at
// LimitPrice otherwise. Used for stop-loss and stop-limit exits.
type StopLimitOrder struct {
	OrderBase
	TriggerPrice float64
	LimitPrice   float64
	Triggered    bool
}

// NewStopLimitOrder creates a stop order for qty contracts triggering at
// triggerPrice. Pass NaN for limitPrice to trade at market once triggered.
func NewStopLimitOrder(c *Contract, timestamp time.Time, qty, triggerPrice, limitPrice float64, opts ...OrderOption) (*StopLimitOrder, error) {
	base, err := newOrderBase(c, timestamp, qty, opts)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(triggerPrice) || math.IsInf(triggerPrice, 0) {
		return nil, errors.NewInvalidArgumentError("triggerPrice", triggerPrice, "trigger price must be finite")
	}
	if math.IsInf(limitPrice, 0) {
		return nil, errors.NewInvalidArgumentError("limitPrice", limitPrice, "limit price must be finite or NaN for market")
	}
	return &StopLimitOrder{OrderBase: base, TriggerPrice: triggerPrice, LimitPrice: limitPrice}, nil
}

func (o *StopLimitOrder) Type() OrderType {
	return OrderTypeStopLimit
}

func (o *StopLimitOrder) String() string {
	return o.render(fmt.Sprintf("qty: %g trigger_prc: %g limit_prc: %g", o.qty, o.TriggerPrice, o.LimitPrice))
}

// RollOrder closes a position in an expiring contract and reopens it in a
// later one as a single instruction. The close leg is the working quantity
// that fills drain; ReopenQty records the size of the reopening leg.
type RollOrder struct {
	OrderBase
	CloseQty  float64
	ReopenQty float64
}

// NewRollOrder creates a roll: close closeQty in c, reopen reopenQty in the
// next contract. Both quantities must be finite and nonzero.
func NewRollOrder(c *Contract, timestamp time.Time, closeQty, reopenQty float64, opts ...OrderOption) (*RollOrder, error) {
	if err := checkOrderQty("closeQty", closeQty); err != nil {
		return nil, err
	}
	if err := checkOrderQty("reopenQty", reopenQty); err != nil {
		return nil, err
	}
	base, err := newOrderBase(c, timestamp, closeQty, opts)
	if err != nil {
		return nil, err
	}
	return &RollOrder{OrderBase: base, CloseQty: closeQty, ReopenQty: reopenQty}, nil
}

func (o *RollOrder) Type() OrderType {
	return OrderTypeRoll
}

func (o *RollOrder) String() string {
	return o.render(fmt.Sprintf("close_qty: %g reopen_qty: %g", o.CloseQty, o.ReopenQty))
}
