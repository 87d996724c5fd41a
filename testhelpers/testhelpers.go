// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestWork creates a work record with the given code and returns it.
func CreateTestWork(t *testing.T, app *pocketbase.PocketBase, code string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		t.Fatalf("failed to find works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("finalized", false)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work: %v", err)
	}

	return record
}

// CreateTestContractor creates a contractor record and returns it.
func CreateTestContractor(t *testing.T, app *pocketbase.PocketBase, identifier, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("contractors")
	if err != nil {
		t.Fatalf("failed to find contractors collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("identifier", identifier)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test contractor: %v", err)
	}

	return record
}

// CreateTestItem creates an active item record linked to a work and returns it.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, workID, description string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("items")
	if err != nil {
		t.Fatalf("failed to find items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work", workID)
	record.Set("description", description)
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestQuoteItem creates a quote record for an item with the given
// stored money figures and returns it. The contractor is registered as an
// external identity so no contractors record is required.
func CreateTestQuoteItem(t *testing.T, app *pocketbase.PocketBase, itemID string, subtotal, materialCost, agValue float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		t.Fatalf("failed to find quote_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("subtotal", subtotal)
	record.Set("material_cost", materialCost)
	record.Set("ag_value", agValue)
	record.Set("total_contractor", subtotal)
	record.Set("external_name", "Contratista de Prueba")
	record.Set("external_identifier", "900000000-"+itemID[:4])

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote item: %v", err)
	}

	return record
}

// CreateTestQuoteWork creates a quote work record for a work and returns it.
func CreateTestQuoteWork(t *testing.T, app *pocketbase.PocketBase, workID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_works")
	if err != nil {
		t.Fatalf("failed to find quote_works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work", workID)
	record.Set("subtotal", 0.0)
	record.Set("total", 0.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote work: %v", err)
	}

	return record
}

// AttachQuoteToWork sets a quote's promotion back-reference directly,
// bypassing the selection flow. Useful for building aggregation fixtures.
func AttachQuoteToWork(t *testing.T, app *pocketbase.PocketBase, quoteItem *core.Record, quoteWorkID string) {
	t.Helper()

	quoteItem.Set("quote_work", quoteWorkID)
	if err := app.Save(quoteItem); err != nil {
		t.Fatalf("failed to attach quote to work: %v", err)
	}
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected JSON to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
