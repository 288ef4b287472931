package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tradekit/internal/errors"
)

// Contract represents a tradable instrument: a stock, an option or a
// future. Contracts are created through NewContract, which claims the
// symbol in the group's registry.
type Contract struct {
	symbol     string
	group      *ContractGroup
	expiry     time.Time // zero = does not expire
	multiplier float64
	properties Properties
}

// ContractOption configures optional contract attributes at creation.
type ContractOption func(*Contract) error

// WithExpiry sets the expiry timestamp for futures and options. The zero
// time is reserved for contracts that do not expire.
func WithExpiry(t time.Time) ContractOption {
	return func(c *Contract) error {
		if t.IsZero() {
			return errors.NewInvalidArgumentError("expiry", t, "expiry must not be the zero time")
		}
		c.expiry = t
		return nil
	}
}

// WithMultiplier sets the contract multiplier, e.g. 50 for an index future
// worth 50 units of index per point.
func WithMultiplier(m float64) ContractOption {
	return func(c *Contract) error {
		if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
			return errors.NewInvalidArgumentError("multiplier", m, "multiplier must be finite and positive")
		}
		c.multiplier = m
		return nil
	}
}

// WithContractProperties seeds the contract's property bag with a copy of p.
func WithContractProperties(p Properties) ContractOption {
	return func(c *Contract) error {
		c.properties = p.Clone()
		return nil
	}
}

// NewContract creates a contract inside group and registers its symbol in
// the group's registry. The symbol must be non-blank and unused. On any
// validation failure nothing is registered.
func NewContract(group *ContractGroup, symbol string, opts ...ContractOption) (*Contract, error) {
	if group == nil {
		return nil, errors.NewInvalidArgumentError("group", nil, "contract group is required")
	}
	if strings.TrimSpace(symbol) == "" {
		return nil, errors.NewInvalidArgumentError("symbol", symbol, "symbol must not be blank")
	}
	c := &Contract{
		symbol:     symbol,
		group:      group,
		multiplier: 1,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := group.registry.registerContract(c); err != nil {
		return nil, err
	}
	group.addContract(c)
	return c, nil
}

// Symbol returns the contract's unique symbol, e.g. IBM or ESH9.
func (c *Contract) Symbol() string {
	return c.symbol
}

// Group returns the group this contract belongs to.
func (c *Contract) Group() *ContractGroup {
	return c.group
}

// Expiry returns the expiry timestamp; ok is false when the contract does
// not expire.
func (c *Contract) Expiry() (time.Time, bool) {
	return c.expiry, !c.expiry.IsZero()
}

// Multiplier returns the contract multiplier. Defaults to 1.
func (c *Contract) Multiplier() float64 {
	return c.multiplier
}

// Properties returns the live property bag; callers may extend it. May be
// nil when nothing was ever set.
func (c *Contract) Properties() Properties {
	return c.properties
}

// SetProperty attaches one named value, allocating the bag on first use.
func (c *Contract) SetProperty(name string, v PropertyValue) {
	if c.properties == nil {
		c.properties = Properties{}
	}
	c.properties[name] = v
}

// String renders a single-line summary. The multiplier appears only when it
// differs from 1, the expiry only when the contract expires.
func (c *Contract) String() string {
	var b strings.Builder
	b.WriteString(c.symbol)
	if c.multiplier != 1 {
		fmt.Fprintf(&b, " %g", c.multiplier)
	}
	if !c.expiry.IsZero() {
		b.WriteString(" expiry: ")
		b.WriteString(c.expiry.Format(timestampLayout))
	}
	if c.group != nil {
		b.WriteString(" group: ")
		b.WriteString(c.group.name)
	}
	if len(c.properties) > 0 {
		b.WriteByte(' ')
		b.WriteString(c.properties.String())
	}
	return b.String()
}
