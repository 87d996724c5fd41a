package services

// QuoteFigures are the stored money columns of a promoted quote that feed
// the work-level aggregate: the contractor subtotal, the management
// materials cost, and the management markup value.
type QuoteFigures struct {
	Subtotal     float64 `json:"subtotal"`
	MaterialCost float64 `json:"materialCost"`
	AGValue      float64 `json:"agValue"`
}

// ItemTotal is the amount a promoted quote contributes to its work
// aggregate.
func (q QuoteFigures) ItemTotal() float64 {
	return q.Subtotal + q.MaterialCost + q.AGValue
}

// WorkAggregate is the recomputed work-level quote.
type WorkAggregate struct {
	Subtotal float64      `json:"subtotal"`
	Tax      TaxBreakdown `json:"tax"`
	Total    float64      `json:"total"`
}

// AggregateQuotes recomputes a work aggregate from its member quotes under
// the work's own tax regime. Pure function of the inputs: running it twice
// over the same members yields the same figures.
func AggregateQuotes(quotes []QuoteFigures, regime TaxRegime) WorkAggregate {
	var subtotal float64
	for _, q := range quotes {
		subtotal += q.ItemTotal()
	}

	tax := regime.Tax(subtotal, DefaultVATRate)

	total := subtotal + tax.Total
	if !regime.IsNone() {
		total = RoundUnit(total)
	}

	return WorkAggregate{Subtotal: subtotal, Tax: tax, Total: total}
}
