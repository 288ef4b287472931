// Package report derives presentation records from raw executions: round
// trips paired from trade lists and plot-marker styles per reason code.
// Nothing here feeds back into the order or trade lifecycle.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"tradekit/internal/errors"
	"tradekit/internal/models"
)

// lot is an open slice of position waiting for the exit that flattens it.
type lot struct {
	trade *models.Trade
	qty   decimal.Decimal
}

// RoundTrips pairs executions into round trips, oldest entry first. Trades
// are processed per contract in timestamp order. A trade against the
// current position consumes open lots FIFO, splitting lots as needed and
// pro-rating each trade's commission and fee by the matched quantity. A
// trade larger than the open position flips it: the residue opens a new
// position in the other direction.
//
// All money arithmetic runs on decimals and converts to float64 once, in
// the returned records.
func RoundTrips(trades []*models.Trade) ([]models.RoundTripTrade, error) {
	for i, tr := range trades {
		if tr == nil {
			return nil, errors.NewInvalidArgumentError("trades", i, "trade must not be nil")
		}
	}

	sorted := make([]*models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	books := make(map[*models.Contract][]*lot)
	var rounds []models.RoundTripTrade

	for _, tr := range sorted {
		if tr.Qty() == 0 {
			continue
		}
		q := decimal.NewFromFloat(tr.Qty())
		book := books[tr.Contract()]
		for !q.IsZero() {
			if len(book) == 0 || book[0].qty.Sign() == q.Sign() {
				book = append(book, &lot{trade: tr, qty: q})
				break
			}
			head := book[0]
			match := decimal.Min(q.Abs(), head.qty.Abs())
			rounds = append(rounds, buildRoundTrip(head, tr, match))

			dir := decimal.NewFromInt(int64(head.qty.Sign()))
			head.qty = head.qty.Sub(match.Mul(dir))
			q = q.Add(match.Mul(dir))
			if head.qty.IsZero() {
				book = book[1:]
			}
		}
		books[tr.Contract()] = book
	}

	return rounds, nil
}

func buildRoundTrip(entry *lot, exit *models.Trade, match decimal.Decimal) models.RoundTripTrade {
	entryTrade := entry.trade
	dir := decimal.NewFromInt(int64(entry.qty.Sign()))
	mult := decimal.NewFromFloat(entryTrade.Contract().Multiplier())
	entryPrice := decimal.NewFromFloat(entryTrade.Price())
	exitPrice := decimal.NewFromFloat(exit.Price())

	gross := exitPrice.Sub(entryPrice).Mul(match).Mul(dir).Mul(mult)

	entryCommission := share(entryTrade.Commission(), match, entryTrade.Qty())
	exitCommission := share(exit.Commission(), match, exit.Qty())
	entryFee := share(entryTrade.Fee(), match, entryTrade.Qty())
	exitFee := share(exit.Fee(), match, exit.Qty())

	net := gross.Sub(entryCommission).Sub(exitCommission).Sub(entryFee).Sub(exitFee)

	return models.RoundTripTrade{
		Contract:        entryTrade.Contract(),
		EntryOrder:      entryTrade.Order(),
		ExitOrder:       exit.Order(),
		EntryTimestamp:  entryTrade.Timestamp(),
		ExitTimestamp:   exit.Timestamp(),
		Qty:             match.Mul(dir).InexactFloat64(),
		EntryPrice:      entryTrade.Price(),
		ExitPrice:       exit.Price(),
		EntryReason:     entryTrade.Order().Base().Reason,
		ExitReason:      exit.Order().Base().Reason,
		EntryCommission: entryCommission.InexactFloat64(),
		ExitCommission:  exitCommission.InexactFloat64(),
		EntryProperties: entryTrade.Properties(),
		ExitProperties:  exit.Properties(),
		NetPnL:          net.InexactFloat64(),
	}
}

// share pro-rates a per-trade amount onto the matched quantity.
func share(amount float64, match decimal.Decimal, tradeQty float64) decimal.Decimal {
	if amount == 0 {
		return decimal.Zero
	}
	total := decimal.NewFromFloat(tradeQty).Abs()
	if total.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Mul(match).Div(total)
}
