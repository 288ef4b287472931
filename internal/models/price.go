package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Price represents a bid/ask quote at a point in time. NaN marks an unknown
// side; sizes are share or contract counts at the touch.
type Price struct {
	Timestamp  time.Time
	Bid        float64
	Ask        float64
	BidSize    int
	AskSize    int
	Valid      bool
	Properties Properties
}

// NewPrice returns a valid quote.
func NewPrice(timestamp time.Time, bid, ask float64, bidSize, askSize int) Price {
	return Price{
		Timestamp: timestamp,
		Bid:       bid,
		Ask:       ask,
		BidSize:   bidSize,
		AskSize:   askSize,
		Valid:     true,
	}
}

// InvalidPrice returns the canonical not-a-quote sentinel: zero timestamp,
// NaN on both sides, -1 sizes, Valid false.
func InvalidPrice() Price {
	return Price{
		Bid:     math.NaN(),
		Ask:     math.NaN(),
		BidSize: -1,
		AskSize: -1,
	}
}

// Mid returns the midpoint of bid and ask. NaN when either side is unknown.
func (p Price) Mid() float64 {
	return 0.5 * (p.Bid + p.Ask)
}

// VWMid returns the volume-weighted midpoint, each side weighted by the
// size quoted on the opposite side. NaN when the sizes sum to zero.
func (p Price) VWMid() float64 {
	total := p.BidSize + p.AskSize
	if total == 0 {
		return math.NaN()
	}
	return (p.Bid*float64(p.AskSize) + p.Ask*float64(p.BidSize)) / float64(total)
}

// Spread returns ask minus bid, or NaN for a crossed quote.
func (p Price) Spread() float64 {
	if p.Ask < p.Bid {
		return math.NaN()
	}
	return p.Ask - p.Bid
}

// SetProperty attaches one named value, allocating the bag on first use.
func (p *Price) SetProperty(name string, v PropertyValue) {
	if p.Properties == nil {
		p.Properties = Properties{}
	}
	p.Properties[name] = v
}

// String renders "bid@size/ask@size", any properties, and an " invalid"
// marker on the sentinel.
func (p Price) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.2f@%d/%.2f@%d", p.Bid, p.BidSize, p.Ask, p.AskSize)
	if len(p.Properties) > 0 {
		b.WriteByte(' ')
		b.WriteString(p.Properties.String())
	}
	if !p.Valid {
		b.WriteString(" invalid")
	}
	return b.String()
}
