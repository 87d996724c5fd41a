package bootstrap

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"quotationdesk/services"
)

// MigrateDetachInactiveQuotes finds quote_items still attached to a quote
// work although their owning item has been deactivated, detaches them, and
// recomputes the affected aggregates. Earlier deployments relied on the
// deactivation handler alone, which could leave stale attachments behind
// after a crash mid-cascade. Safe to call on every startup -- returns early
// if nothing needs repair.
func MigrateDetachInactiveQuotes(app *pocketbase.PocketBase) error {
	attached, err := app.FindRecordsByFilter(
		"quote_items",
		"quote_work != ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query attached quotes: %w", err)
	}

	stale := map[string]bool{}
	for _, qi := range attached {
		item, err := app.FindRecordById("items", qi.GetString("item"))
		if err != nil {
			log.Printf("migrate: quote %s references missing item %s: %v\n", qi.Id, qi.GetString("item"), err)
			continue
		}
		if !item.GetBool("active") {
			stale[qi.GetString("quote_work")] = true
		}
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found stale quote attachments in %d quote work(s) -- repairing...\n", len(stale))

	for qwID := range stale {
		// Re-aggregation detaches members whose item is inactive as part
		// of its normal sweep.
		if _, err := services.ReaggregateQuoteWork(app, qwID); err != nil {
			log.Printf("migrate: failed to re-aggregate quote work %s: %v\n", qwID, err)
			continue
		}
	}

	log.Println("migrate: stale quote attachment repair complete.")
	return nil
}
