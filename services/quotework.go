package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// The functions in this file orchestrate the quote selection lifecycle
// against the quote_items / quote_works collections: promotion, markup
// adjustment, detachment and the deactivation cascade. Every mutating entry
// point runs inside RunInTransaction so the read-members-then-write-aggregate
// sequence can never interleave with a concurrent promotion against the
// same quote work.

// QuoteWorkRegime rebuilds the tax regime a quote_works record stores as
// flat columns.
func QuoteWorkRegime(qw *core.Record) TaxRegime {
	return RegimeFromFlags(
		qw.GetBool("vat"),
		qw.GetFloat("administration_percentage"),
		qw.GetFloat("contingencies_percentage"),
		qw.GetFloat("profit_percentage"),
	)
}

// QuoteItemRegime rebuilds the tax regime a quote_items record stores.
func QuoteItemRegime(qi *core.Record) TaxRegime {
	return RegimeFromFlags(
		qi.GetBool("vat"),
		qi.GetFloat("administration_percentage"),
		qi.GetFloat("contingencies_percentage"),
		qi.GetFloat("profit_percentage"),
	)
}

// EnsureQuoteWork returns the quote_works record for a work, creating it
// with zero totals on first use. At most one exists per work.
func EnsureQuoteWork(app core.App, workID string) (*core.Record, error) {
	if _, err := app.FindRecordById("works", workID); err != nil {
		return nil, fmt.Errorf("work not found: %w", err)
	}

	existing, err := app.FindRecordsByFilter(
		"quote_works",
		"work = {:work}",
		"",
		1,
		0,
		map[string]any{"work": workID},
	)
	if err != nil {
		return nil, fmt.Errorf("could not look up quote work: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	col, err := app.FindCollectionByNameOrId("quote_works")
	if err != nil {
		return nil, fmt.Errorf("quote_works collection missing: %w", err)
	}

	qw := core.NewRecord(col)
	qw.Set("work", workID)
	qw.Set("subtotal", 0.0)
	qw.Set("total", 0.0)
	if err := app.Save(qw); err != nil {
		return nil, fmt.Errorf("could not create quote work: %w", err)
	}
	return qw, nil
}

// PromoteQuoteItem marks a quote as the winning quote for its item and
// attaches it to the work's aggregate, creating the quote_works record if
// this is the first selection for the work. Promoting a quote that is
// already attached only re-runs aggregation. If a different quote for the
// same item is already attached the promotion fails with ErrQuoteConflict
// and nothing is written.
func PromoteQuoteItem(app core.App, quoteItemID string) (*core.Record, error) {
	var qw *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		qi, err := txApp.FindRecordById("quote_items", quoteItemID)
		if err != nil {
			return fmt.Errorf("quote not found: %w", err)
		}

		item, err := txApp.FindRecordById("items", qi.GetString("item"))
		if err != nil {
			return fmt.Errorf("item not found: %w", err)
		}
		if !item.GetBool("active") {
			return ValidationErrors{"item": "item is inactive"}
		}

		winners, err := txApp.FindRecordsByFilter(
			"quote_items",
			"item = {:item} && quote_work != '' && id != {:id}",
			"",
			1,
			0,
			map[string]any{"item": item.Id, "id": qi.Id},
		)
		if err != nil {
			return fmt.Errorf("could not check existing selection: %w", err)
		}
		if len(winners) > 0 {
			return ErrQuoteConflict
		}

		qw, err = EnsureQuoteWork(txApp, item.GetString("work"))
		if err != nil {
			return err
		}

		if qi.GetString("quote_work") != qw.Id {
			qi.Set("quote_work", qw.Id)
			if err := txApp.Save(qi); err != nil {
				return fmt.Errorf("could not attach quote: %w", err)
			}
		}

		return reaggregate(txApp, qw)
	})
	if err != nil {
		return nil, err
	}
	return qw, nil
}

// AdjustQuoteItem applies the management markup to a quote: the AG
// percentage plus a materials cost (and optional description) override.
// An unpromoted quote is promoted as part of the same operation, and the
// work aggregate is recomputed either way.
func AdjustQuoteItem(app core.App, quoteItemID string, agPercent, materialCost float64, materialDesc string) (*core.Record, error) {
	var qi *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		var err error
		qi, err = txApp.FindRecordById("quote_items", quoteItemID)
		if err != nil {
			return fmt.Errorf("quote not found: %w", err)
		}

		adjusted, err := ApplyManagementMarkup(qi.GetFloat("subtotal"), materialCost, agPercent)
		if err != nil {
			return err
		}

		qi.Set("management_percentage", agPercent)
		qi.Set("ag_value", adjusted.AGValue)
		qi.Set("material_cost", materialCost)
		if materialDesc != "" {
			qi.Set("material_desc", materialDesc)
		}
		qi.Set("total_contractor", adjusted.Total)
		if err := txApp.Save(qi); err != nil {
			return fmt.Errorf("could not save adjustment: %w", err)
		}

		if qi.GetString("quote_work") == "" {
			if _, err := PromoteQuoteItem(txApp, qi.Id); err != nil {
				return err
			}
			// The promotion saved its own copy of the record; reload so
			// the caller sees the attachment.
			qi, err = txApp.FindRecordById("quote_items", qi.Id)
			if err != nil {
				return fmt.Errorf("quote not found: %w", err)
			}
			return nil
		}

		qw, err := txApp.FindRecordById("quote_works", qi.GetString("quote_work"))
		if err != nil {
			return fmt.Errorf("quote work not found: %w", err)
		}
		return reaggregate(txApp, qw)
	})
	if err != nil {
		return nil, err
	}
	return qi, nil
}

// DetachQuoteItem unselects a promoted quote: clears its quote_work
// back-reference and recomputes the aggregate it used to count toward.
// Detaching an unpromoted quote is a no-op.
func DetachQuoteItem(app core.App, quoteItemID string) error {
	return app.RunInTransaction(func(txApp core.App) error {
		qi, err := txApp.FindRecordById("quote_items", quoteItemID)
		if err != nil {
			return fmt.Errorf("quote not found: %w", err)
		}

		qwID := qi.GetString("quote_work")
		if qwID == "" {
			return nil
		}

		qi.Set("quote_work", "")
		if err := txApp.Save(qi); err != nil {
			return fmt.Errorf("could not detach quote: %w", err)
		}

		qw, err := txApp.FindRecordById("quote_works", qwID)
		if err != nil {
			return fmt.Errorf("quote work not found: %w", err)
		}
		return reaggregate(txApp, qw)
	})
}

// CascadeItemDeactivation detaches any promoted quote belonging to an item
// that was just deactivated and recomputes the affected work aggregates.
// Call after persisting active=false on the item.
func CascadeItemDeactivation(app core.App, itemID string) error {
	return app.RunInTransaction(func(txApp core.App) error {
		promoted, err := txApp.FindRecordsByFilter(
			"quote_items",
			"item = {:item} && quote_work != ''",
			"",
			0,
			0,
			map[string]any{"item": itemID},
		)
		if err != nil {
			return fmt.Errorf("could not list promoted quotes: %w", err)
		}

		touched := map[string]*core.Record{}
		for _, qi := range promoted {
			qwID := qi.GetString("quote_work")
			qi.Set("quote_work", "")
			if err := txApp.Save(qi); err != nil {
				return fmt.Errorf("could not detach quote: %w", err)
			}
			if _, ok := touched[qwID]; !ok {
				qw, err := txApp.FindRecordById("quote_works", qwID)
				if err != nil {
					return fmt.Errorf("quote work not found: %w", err)
				}
				touched[qwID] = qw
			}
		}

		for _, qw := range touched {
			if err := reaggregate(txApp, qw); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateQuoteWorkSettings replaces the tax regime stored on a work's
// aggregate. Selecting vat zeroes the AIU percentages and vice versa, then
// the aggregate is recomputed under the new regime. The quote_works record
// is created if the work has none yet.
func UpdateQuoteWorkSettings(app core.App, workID string, regime TaxRegime) (*core.Record, error) {
	var qw *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		var err error
		qw, err = EnsureQuoteWork(txApp, workID)
		if err != nil {
			return err
		}

		admin, conting, profit := regime.AIUPercentages()
		qw.Set("vat", regime.IsVAT())
		qw.Set("administration_percentage", admin)
		qw.Set("contingencies_percentage", conting)
		qw.Set("profit_percentage", profit)
		if err := txApp.Save(qw); err != nil {
			return fmt.Errorf("could not save quote work settings: %w", err)
		}

		return reaggregate(txApp, qw)
	})
	if err != nil {
		return nil, err
	}
	return qw, nil
}

// ReaggregateQuoteWork recomputes a work aggregate from its current
// members. Exposed for callers that already mutated membership outside the
// promotion/detachment helpers.
func ReaggregateQuoteWork(app core.App, quoteWorkID string) (*core.Record, error) {
	var qw *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		var err error
		qw, err = txApp.FindRecordById("quote_works", quoteWorkID)
		if err != nil {
			return fmt.Errorf("quote work not found: %w", err)
		}
		return reaggregate(txApp, qw)
	})
	if err != nil {
		return nil, err
	}
	return qw, nil
}

// reaggregate recomputes and persists the subtotal/total of a quote work
// from every quote currently referencing it. Quotes whose owning item has
// been deactivated are detached here so that an attached quote always means
// a counted quote. Must run inside a transaction.
func reaggregate(txApp core.App, qw *core.Record) error {
	members, err := txApp.FindRecordsByFilter(
		"quote_items",
		"quote_work = {:qw}",
		"",
		0,
		0,
		map[string]any{"qw": qw.Id},
	)
	if err != nil {
		return fmt.Errorf("could not list member quotes: %w", err)
	}

	figures := make([]QuoteFigures, 0, len(members))
	for _, qi := range members {
		item, err := txApp.FindRecordById("items", qi.GetString("item"))
		if err != nil {
			return fmt.Errorf("item not found: %w", err)
		}
		if !item.GetBool("active") {
			qi.Set("quote_work", "")
			if err := txApp.Save(qi); err != nil {
				return fmt.Errorf("could not detach inactive quote: %w", err)
			}
			continue
		}
		figures = append(figures, QuoteFigures{
			Subtotal:     qi.GetFloat("subtotal"),
			MaterialCost: qi.GetFloat("material_cost"),
			AGValue:      qi.GetFloat("ag_value"),
		})
	}

	agg := AggregateQuotes(figures, QuoteWorkRegime(qw))

	qw.Set("subtotal", agg.Subtotal)
	qw.Set("total", agg.Total)
	return txApp.Save(qw)
}
