package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// QuoteSubmission is a contractor's priced proposal for one item, either
// from a registered contractor or from an external one reached through a
// tokenized link.
type QuoteSubmission struct {
	Lines        []QuoteLine
	MaterialDesc string
	MaterialCost float64
	Regime       TaxRegime
	Identity     ContractorIdentity
}

// CheckQuotationDeadline rejects external submissions for a work whose
// quotation deadline has passed. Internal submissions are not time-gated.
// A work without a deadline accepts external quotes indefinitely.
func CheckQuotationDeadline(work *core.Record, identity ContractorIdentity, now time.Time) error {
	if !identity.IsExternal() {
		return nil
	}
	deadline := work.GetDateTime("quotation_deadline")
	if deadline.IsZero() {
		return nil
	}
	if now.After(deadline.Time()) {
		return ErrDeadlineExpired
	}
	return nil
}

// SubmitQuote prices and persists a new quote for an item. One quote per
// contractor per item: a repeat submission from the same identity fails
// with ErrQuoteConflict. External submissions are checked against the
// work's quotation deadline first.
func SubmitQuote(app core.App, itemID string, sub QuoteSubmission, now time.Time) (*core.Record, error) {
	var qi *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		item, err := txApp.FindRecordById("items", itemID)
		if err != nil {
			return fmt.Errorf("item not found: %w", err)
		}
		work, err := txApp.FindRecordById("works", item.GetString("work"))
		if err != nil {
			return fmt.Errorf("work not found: %w", err)
		}

		if err := CheckQuotationDeadline(work, sub.Identity, now); err != nil {
			return err
		}

		existing, err := txApp.FindRecordsByFilter(
			"quote_items",
			"item = {:item}",
			"",
			0,
			0,
			map[string]any{"item": itemID},
		)
		if err != nil {
			return fmt.Errorf("could not list existing quotes: %w", err)
		}
		for _, prev := range existing {
			if sub.Identity.Matches(prev.GetString("contractor"), prev.GetString("external_identifier")) {
				return ErrQuoteConflict
			}
		}

		pricing, err := PriceQuote(sub.Lines, sub.MaterialCost, sub.Regime)
		if err != nil {
			return err
		}

		col, err := txApp.FindCollectionByNameOrId("quote_items")
		if err != nil {
			return fmt.Errorf("quote_items collection missing: %w", err)
		}

		qi = core.NewRecord(col)
		qi.Set("item", itemID)
		setQuotePricing(qi, sub, pricing)
		if sub.Identity.IsExternal() {
			name, identifier := sub.Identity.External()
			qi.Set("external_name", name)
			qi.Set("external_identifier", identifier)
		} else {
			qi.Set("contractor", sub.Identity.InternalID())
		}

		if err := txApp.Save(qi); err != nil {
			return fmt.Errorf("could not save quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qi, nil
}

// UpdateQuote reprices an existing quote from fresh lines, materials and
// regime. The promotion back-reference is left alone; if the quote is
// attached to a work aggregate the aggregate is recomputed with the new
// figures.
func UpdateQuote(app core.App, quoteItemID string, sub QuoteSubmission) (*core.Record, error) {
	var qi *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		var err error
		qi, err = txApp.FindRecordById("quote_items", quoteItemID)
		if err != nil {
			return fmt.Errorf("quote not found: %w", err)
		}

		pricing, err := PriceQuote(sub.Lines, sub.MaterialCost, sub.Regime)
		if err != nil {
			return err
		}

		setQuotePricing(qi, sub, pricing)
		if err := txApp.Save(qi); err != nil {
			return fmt.Errorf("could not save quote: %w", err)
		}

		if qwID := qi.GetString("quote_work"); qwID != "" {
			qw, err := txApp.FindRecordById("quote_works", qwID)
			if err != nil {
				return fmt.Errorf("quote work not found: %w", err)
			}
			return reaggregate(txApp, qw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qi, nil
}

// setQuotePricing writes the priced figures and regime columns onto a
// quote_items record. Selecting vat zeroes the AIU percentages and vice
// versa.
func setQuotePricing(qi *core.Record, sub QuoteSubmission, pricing QuotePricing) {
	admin, conting, profit := sub.Regime.AIUPercentages()

	qi.Set("subquotations", pricing.Lines)
	qi.Set("material_desc", sub.MaterialDesc)
	qi.Set("material_cost", pricing.MaterialCost)
	qi.Set("subtotal", pricing.Subtotal)
	qi.Set("vat", sub.Regime.IsVAT())
	qi.Set("administration_percentage", admin)
	qi.Set("contingencies_percentage", conting)
	qi.Set("profit_percentage", profit)
	qi.Set("tax_amount", pricing.Tax.Total)
	qi.Set("total_contractor", pricing.Total)
}
