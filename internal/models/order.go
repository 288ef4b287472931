package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tradekit/internal/errors"
)

// OrderStatus represents where an order is in its lifecycle.
type OrderStatus string

const (
	OrderStatusOpen            OrderStatus = "OPEN"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelRequested OrderStatus = "CANCEL_REQUESTED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// Terminal reports whether the status allows no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled
}

// OrderType tags the concrete order variant.
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
	OrderTypeRoll      OrderType = "ROLL"
)

// fillTolerance is the absolute remainder below which an order counts as
// fully filled.
const fillTolerance = 1e-9

// Order is the closed set of order variants: MarketOrder, LimitOrder,
// StopLimitOrder and RollOrder. Every variant embeds OrderBase, which
// carries the shared fields and the fill/cancel lifecycle. Switch on Type
// or type-switch on the value itself to reach variant fields.
type Order interface {
	Base() *OrderBase
	Type() OrderType
	String() string
	orderVariant()
}

// OrderBase carries the fields and lifecycle shared by every order variant.
// Quantity is signed: positive buys, negative sells. The quantity counts
// down as fills arrive, so Qty always reports what is still unfilled.
type OrderBase struct {
	Contract    *Contract
	Timestamp   time.Time
	Reason      ReasonCode
	TimeInForce TimeInForce
	Properties  Properties

	qty    float64
	status OrderStatus
}

// Base returns the shared core. It is the receiver itself; fills and
// cancels applied through it are visible on the variant.
func (o *OrderBase) Base() *OrderBase {
	return o
}

func (o *OrderBase) orderVariant() {}

// Qty returns the remaining unfilled quantity, signed.
func (o *OrderBase) Qty() float64 {
	return o.qty
}

// Status returns the current lifecycle status.
func (o *OrderBase) Status() OrderStatus {
	return o.status
}

// IsOpen reports whether the order is still working: OPEN,
// CANCEL_REQUESTED or PARTIALLY_FILLED.
func (o *OrderBase) IsOpen() bool {
	return o.status == OrderStatusOpen ||
		o.status == OrderStatusCancelRequested ||
		o.status == OrderStatusPartiallyFilled
}

// Fill consumes fillQty from the remaining quantity. Fills are accepted
// only in OPEN or PARTIALLY_FILLED. The fill must carry the same sign as
// the remainder and must not exceed it in magnitude. A remainder within
// fillTolerance of zero completes the order and snaps the quantity to 0.
func (o *OrderBase) Fill(fillQty float64) error {
	if o.status != OrderStatusOpen && o.status != OrderStatusPartiallyFilled {
		return errors.NewInvalidStateError("fill order", string(o.status))
	}
	if math.IsNaN(fillQty) || math.IsInf(fillQty, 0) {
		return errors.NewInvalidArgumentError("fillQty", fillQty, "fill quantity must be finite")
	}
	if o.qty*fillQty < 0 {
		return errors.NewInvalidArgumentError("fillQty", fillQty,
			fmt.Sprintf("fill sign must match remaining qty %g", o.qty))
	}
	if math.Abs(fillQty) > math.Abs(o.qty) {
		return errors.NewInvalidArgumentError("fillQty", fillQty,
			fmt.Sprintf("fill magnitude exceeds remaining qty %g", o.qty))
	}
	o.qty -= fillQty
	if math.Abs(o.qty) <= fillTolerance {
		o.qty = 0
		o.status = OrderStatusFilled
	} else {
		o.status = OrderStatusPartiallyFilled
	}
	return nil
}

// FillAll fills the entire remaining quantity.
func (o *OrderBase) FillAll() error {
	return o.Fill(o.qty)
}

// RequestCancel moves a working order to CANCEL_REQUESTED. Terminal orders
// cannot be cancelled.
func (o *OrderBase) RequestCancel() error {
	if o.status.Terminal() {
		return errors.NewInvalidStateError("request cancel of order", string(o.status))
	}
	o.status = OrderStatusCancelRequested
	return nil
}

// Cancel finalizes a cancellation from any working state. Terminal orders
// cannot be cancelled.
func (o *OrderBase) Cancel() error {
	if o.status.Terminal() {
		return errors.NewInvalidStateError("cancel order", string(o.status))
	}
	o.status = OrderStatusCancelled
	return nil
}

// SetProperty attaches one named value, allocating the bag on first use.
func (o *OrderBase) SetProperty(name string, v PropertyValue) {
	if o.Properties == nil {
		o.Properties = Properties{}
	}
	o.Properties[name] = v
}

// render assembles the one-line summary shared by all variants: symbol,
// timestamp, the variant's core clause, then reason (unless "none"),
// properties (unless empty) and the status.
func (o *OrderBase) render(core string) string {
	var b strings.Builder
	if o.Contract != nil {
		b.WriteString(o.Contract.symbol)
	}
	b.WriteByte(' ')
	b.WriteString(o.Timestamp.Format(timestampLayout))
	b.WriteByte(' ')
	b.WriteString(core)
	if o.Reason != ReasonNone {
		b.WriteByte(' ')
		b.WriteString(string(o.Reason))
	}
	if len(o.Properties) > 0 {
		b.WriteByte(' ')
		b.WriteString(o.Properties.String())
	}
	b.WriteByte(' ')
	b.WriteString(string(o.status))
	return b.String()
}
