package report

import "tradekit/internal/models"

// MarkerStyle describes how a reason code is drawn on a price chart.
type MarkerStyle struct {
	Symbol string
	Color  string
	Size   int
}

// Marker pairs a reason code with its style for display.
type Marker struct {
	Reason models.ReasonCode
	Style  MarkerStyle
}

var markerStyles = map[models.ReasonCode]MarkerStyle{
	models.ReasonEnterLong:   {Symbol: "P", Color: "blue", Size: 50},
	models.ReasonEnterShort:  {Symbol: "P", Color: "red", Size: 50},
	models.ReasonExitLong:    {Symbol: "X", Color: "blue", Size: 50},
	models.ReasonExitShort:   {Symbol: "X", Color: "red", Size: 50},
	models.ReasonRollFuture:  {Symbol: ">", Color: "green", Size: 50},
	models.ReasonBacktestEnd: {Symbol: "*", Color: "green", Size: 50},
	models.ReasonNone:        {Symbol: "o", Color: "green", Size: 50},
}

// markerOrder fixes the display order of Markers.
var markerOrder = []models.ReasonCode{
	models.ReasonEnterLong,
	models.ReasonEnterShort,
	models.ReasonExitLong,
	models.ReasonExitShort,
	models.ReasonRollFuture,
	models.ReasonBacktestEnd,
	models.ReasonNone,
}

// MarkerFor returns the plot style for a reason code. Unknown codes fall
// back to the neutral style.
func MarkerFor(rc models.ReasonCode) MarkerStyle {
	if s, ok := markerStyles[rc]; ok {
		return s
	}
	return markerStyles[models.ReasonNone]
}

// Markers returns every reason code with its style in display order.
func Markers() []Marker {
	out := make([]Marker, 0, len(markerOrder))
	for _, rc := range markerOrder {
		out = append(out, Marker{Reason: rc, Style: markerStyles[rc]})
	}
	return out
}
