package services

import (
	"fmt"
	"strings"
)

// QuoteLine is one priced activity inside a contractor's quote. Line totals
// keep 2 decimal places; whole-unit rounding only happens on tax-inclusive
// totals.
type QuoteLine struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// QuotePricing is the computed result of pricing a contractor quote.
type QuotePricing struct {
	Lines        []QuoteLine  `json:"lines"`
	MaterialCost float64      `json:"materialCost"`
	Subtotal     float64      `json:"subtotal"`
	Tax          TaxBreakdown `json:"tax"`
	Total        float64      `json:"total"`
}

// PriceQuote computes a contractor's quote from its raw lines, materials cost
// and tax regime. Lines with an empty description are dropped (the submission
// form keeps blank rows around); at least one line with a description and a
// positive quantity must remain.
func PriceQuote(lines []QuoteLine, materialCost float64, regime TaxRegime) (QuotePricing, error) {
	errs := ValidationErrors{}

	if materialCost < 0 {
		errs["materialCost"] = "material cost cannot be negative"
	}

	kept := make([]QuoteLine, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line.Description) == "" {
			continue
		}
		if line.Quantity <= 0 {
			errs[lineField(i, "quantity")] = "quantity must be greater than zero"
		}
		if line.UnitPrice < 0 {
			errs[lineField(i, "unitPrice")] = "unit price cannot be negative"
		}
		line.Total = Round2(line.Quantity * line.UnitPrice)
		kept = append(kept, line)
	}

	if len(kept) == 0 {
		errs["lines"] = "at least one line with a description and a positive quantity is required"
	}

	if len(errs) > 0 {
		return QuotePricing{}, errs
	}

	var subtotal float64
	for _, line := range kept {
		subtotal += line.Total
	}
	subtotal += materialCost

	tax := regime.Tax(subtotal, DefaultVATRate)

	total := subtotal + tax.Total
	if !regime.IsNone() {
		total = RoundUnit(total)
	}

	return QuotePricing{
		Lines:        kept,
		MaterialCost: materialCost,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
	}, nil
}

func lineField(i int, name string) string {
	return fmt.Sprintf("lines[%d].%s", i, name)
}

// AdjustedQuote is the result of a management markup adjustment on a
// selected quote.
type AdjustedQuote struct {
	ContractorBase float64 `json:"contractorBase"`
	AGValue        float64 `json:"agValue"`
	Total          float64 `json:"total"`
}

// ApplyManagementMarkup applies the AG percentage on top of the contractor's
// subtotal plus the management-set materials cost. The AG percentage must be
// in (0, 100]: finalizing with no markup is not a valid adjustment.
func ApplyManagementMarkup(contractorSubtotal, materialCost, agPercent float64) (AdjustedQuote, error) {
	errs := ValidationErrors{}
	if agPercent <= 0 || agPercent > 100 {
		errs["managementPercentage"] = "must be greater than 0 and at most 100"
	}
	if materialCost < 0 {
		errs["materialCost"] = "material cost cannot be negative"
	}
	if len(errs) > 0 {
		return AdjustedQuote{}, errs
	}

	base := contractorSubtotal + materialCost
	agValue := RoundUnit(base * agPercent / 100)
	return AdjustedQuote{
		ContractorBase: base,
		AGValue:        agValue,
		Total:          base + agValue,
	}, nil
}
