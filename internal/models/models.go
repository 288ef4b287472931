// Package models provides the core entities of a backtest: contract groups,
// contracts, quoted prices, orders with their lifecycle, and executed trades.
//
// Entities hang off a Registry, which owns the symbol and group-name
// namespaces for one backtest run. Nothing in this package is safe for
// concurrent use; give each run its own Registry and the question never
// comes up.
package models

// timestampLayout is the layout every entity summary renders timestamps in.
const timestampLayout = "2006-01-02 15:04:05"

// ReasonCode explains why a strategy created an order. Values appear
// verbatim in order summaries and drive plot marker styles.
type ReasonCode string

const (
	ReasonEnterLong   ReasonCode = "enter long"
	ReasonEnterShort  ReasonCode = "enter short"
	ReasonExitLong    ReasonCode = "exit long"
	ReasonExitShort   ReasonCode = "exit short"
	ReasonBacktestEnd ReasonCode = "backtest end"
	ReasonRollFuture  ReasonCode = "roll future"
	ReasonNone        ReasonCode = "none"
)

// TimeInForce represents how long an order stays working.
type TimeInForce string

const (
	TimeInForceFOK TimeInForce = "FOK"
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceDay TimeInForce = "DAY"
)
