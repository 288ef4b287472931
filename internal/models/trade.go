package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tradekit/internal/errors"
)

// Trade represents one execution against an order. A trade is a historical
// fact: every field is fixed at construction and all financial fields are
// finite.
type Trade struct {
	contract   *Contract
	order      Order
	timestamp  time.Time
	qty        float64
	price      float64
	fee        float64
	commission float64
	properties Properties
}

// TradeOption configures optional trade attributes at creation.
type TradeOption func(*Trade) error

// WithFee sets exchange or regulatory fees paid on the execution.
func WithFee(fee float64) TradeOption {
	return func(t *Trade) error {
		if math.IsNaN(fee) || math.IsInf(fee, 0) {
			return errors.NewInvalidArgumentError("fee", fee, "fee must be finite")
		}
		t.fee = fee
		return nil
	}
}

// WithCommission sets the broker commission paid on the execution.
func WithCommission(commission float64) TradeOption {
	return func(t *Trade) error {
		if math.IsNaN(commission) || math.IsInf(commission, 0) {
			return errors.NewInvalidArgumentError("commission", commission, "commission must be finite")
		}
		t.commission = commission
		return nil
	}
}

// WithProperties stores extra data with the trade, e.g. the quote at
// execution time. The bag is copied.
func WithProperties(p Properties) TradeOption {
	return func(t *Trade) error {
		t.properties = p.Clone()
		return nil
	}
}

// NewTrade records an execution of qty at price against order. Quantity and
// price must be finite; fees and commissions default to zero.
func NewTrade(c *Contract, order Order, timestamp time.Time, qty, price float64, opts ...TradeOption) (*Trade, error) {
	if c == nil {
		return nil, errors.NewInvalidArgumentError("contract", nil, "contract is required")
	}
	if order == nil {
		return nil, errors.NewInvalidArgumentError("order", nil, "order is required")
	}
	if timestamp.IsZero() {
		return nil, errors.NewInvalidArgumentError("timestamp", timestamp, "timestamp is required")
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return nil, errors.NewInvalidArgumentError("qty", qty, "quantity must be finite")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, errors.NewInvalidArgumentError("price", price, "price must be finite")
	}
	t := &Trade{
		contract:  c,
		order:     order,
		timestamp: timestamp,
		qty:       qty,
		price:     price,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Contract returns the contract that traded.
func (t *Trade) Contract() *Contract {
	return t.contract
}

// Order returns the order this execution belongs to.
func (t *Trade) Order() Order {
	return t.order
}

// Timestamp returns the execution time.
func (t *Trade) Timestamp() time.Time {
	return t.timestamp
}

// Qty returns the executed quantity, signed like the order's.
func (t *Trade) Qty() float64 {
	return t.qty
}

// Price returns the execution price.
func (t *Trade) Price() float64 {
	return t.price
}

// Fee returns fees paid, zero when none.
func (t *Trade) Fee() float64 {
	return t.fee
}

// Commission returns commission paid, zero when none.
func (t *Trade) Commission() float64 {
	return t.commission
}

// Properties returns a copy of the trade's extra data.
func (t *Trade) Properties() Properties {
	return t.properties.Clone()
}

// String renders a single-line summary: symbol, contract properties if any,
// execution time, quantity and price, nonzero fee and commission, the
// originating order, then trade properties if any.
func (t *Trade) String() string {
	var b strings.Builder
	b.WriteString(t.contract.symbol)
	if cp := t.contract.properties; len(cp) > 0 {
		b.WriteByte(' ')
		b.WriteString(cp.String())
	}
	fmt.Fprintf(&b, " %s qty: %g prc: %.6g", t.timestamp.Format(timestampLayout), t.qty, t.price)
	if t.fee != 0 {
		fmt.Fprintf(&b, " fee: %.6g", t.fee)
	}
	if t.commission != 0 {
		fmt.Fprintf(&b, " commission: %.6g", t.commission)
	}
	fmt.Fprintf(&b, " order: %s", t.order)
	if len(t.properties) > 0 {
		b.WriteByte(' ')
		b.WriteString(t.properties.String())
	}
	return b.String()
}
