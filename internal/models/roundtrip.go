package models

import (
	"fmt"
	"strings"
	"time"
)

// RoundTripTrade pairs an entry execution with the exit that flattened it.
// It is a pure record assembled by reporting code; nothing in the order or
// trade lifecycle depends on it.
type RoundTripTrade struct {
	Contract        *Contract
	EntryOrder      Order
	ExitOrder       Order
	EntryTimestamp  time.Time
	ExitTimestamp   time.Time
	Qty             float64
	EntryPrice      float64
	ExitPrice       float64
	EntryReason     ReasonCode
	ExitReason      ReasonCode
	EntryCommission float64
	ExitCommission  float64
	EntryProperties Properties
	ExitProperties  Properties
	NetPnL          float64
}

// String renders a single-line summary of the round trip.
func (r RoundTripTrade) String() string {
	var b strings.Builder
	if r.Contract != nil {
		b.WriteString(r.Contract.symbol)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s -> %s qty: %g entry_prc: %.6g exit_prc: %.6g",
		r.EntryTimestamp.Format(timestampLayout),
		r.ExitTimestamp.Format(timestampLayout),
		r.Qty, r.EntryPrice, r.ExitPrice)
	if r.EntryReason != "" && r.EntryReason != ReasonNone {
		b.WriteByte(' ')
		b.WriteString(string(r.EntryReason))
	}
	if r.ExitReason != "" && r.ExitReason != ReasonNone {
		b.WriteString(" -> ")
		b.WriteString(string(r.ExitReason))
	}
	fmt.Fprintf(&b, " net_pnl: %.6g", r.NetPnL)
	return b.String()
}
