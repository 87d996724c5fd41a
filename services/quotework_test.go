package services

import (
	"errors"
	"testing"

	"quotationdesk/testhelpers"
)

func TestPromoteQuoteItem_CreatesQuoteWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-100")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Mampostería")
	qi := testhelpers.CreateTestQuoteItem(t, app, item.Id, 500000, 0, 0)

	qw, err := PromoteQuoteItem(app, qi.Id)
	if err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}

	if qw.GetString("work") != work.Id {
		t.Errorf("quote work linked to %q, want %q", qw.GetString("work"), work.Id)
	}
	if !floatClose(qw.GetFloat("subtotal"), 500000) {
		t.Errorf("subtotal = %f, want 500000", qw.GetFloat("subtotal"))
	}

	reloaded, err := app.FindRecordById("quote_items", qi.Id)
	if err != nil {
		t.Fatalf("could not reload quote: %v", err)
	}
	if reloaded.GetString("quote_work") != qw.Id {
		t.Errorf("quote_work = %q, want %q", reloaded.GetString("quote_work"), qw.Id)
	}
}

func TestPromoteQuoteItem_ReusesExistingQuoteWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-101")
	itemA := testhelpers.CreateTestItem(t, app, work.Id, "Pañete")
	itemB := testhelpers.CreateTestItem(t, app, work.Id, "Pintura")
	qiA := testhelpers.CreateTestQuoteItem(t, app, itemA.Id, 500000, 0, 0)
	qiB := testhelpers.CreateTestQuoteItem(t, app, itemB.Id, 300000, 0, 0)

	qwA, err := PromoteQuoteItem(app, qiA.Id)
	if err != nil {
		t.Fatalf("first PromoteQuoteItem() error = %v", err)
	}
	qwB, err := PromoteQuoteItem(app, qiB.Id)
	if err != nil {
		t.Fatalf("second PromoteQuoteItem() error = %v", err)
	}

	if qwA.Id != qwB.Id {
		t.Fatalf("expected one quote work per work, got %q and %q", qwA.Id, qwB.Id)
	}
	if !floatClose(qwB.GetFloat("subtotal"), 800000) {
		t.Errorf("subtotal = %f, want 800000", qwB.GetFloat("subtotal"))
	}
}

func TestPromoteQuoteItem_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-102")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Cubierta")
	qi := testhelpers.CreateTestQuoteItem(t, app, item.Id, 250000, 0, 0)

	first, err := PromoteQuoteItem(app, qi.Id)
	if err != nil {
		t.Fatalf("first PromoteQuoteItem() error = %v", err)
	}
	second, err := PromoteQuoteItem(app, qi.Id)
	if err != nil {
		t.Fatalf("repeat PromoteQuoteItem() error = %v", err)
	}

	if first.Id != second.Id {
		t.Errorf("repeat promotion moved quote to %q, want %q", second.Id, first.Id)
	}
	if !floatClose(second.GetFloat("subtotal"), 250000) {
		t.Errorf("subtotal = %f, want 250000", second.GetFloat("subtotal"))
	}
}

func TestPromoteQuoteItem_ConflictLeavesStateUntouched(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-103")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Cimentación")
	winner := testhelpers.CreateTestQuoteItem(t, app, item.Id, 900000, 0, 0)
	rival := testhelpers.CreateTestQuoteItem(t, app, item.Id, 850000, 0, 0)

	qw, err := PromoteQuoteItem(app, winner.Id)
	if err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}

	_, err = PromoteQuoteItem(app, rival.Id)
	if !errors.Is(err, ErrQuoteConflict) {
		t.Fatalf("expected ErrQuoteConflict, got %v", err)
	}

	reloadedRival, _ := app.FindRecordById("quote_items", rival.Id)
	if reloadedRival.GetString("quote_work") != "" {
		t.Errorf("rival quote got attached to %q", reloadedRival.GetString("quote_work"))
	}
	reloadedQW, _ := app.FindRecordById("quote_works", qw.Id)
	if !floatClose(reloadedQW.GetFloat("subtotal"), 900000) {
		t.Errorf("subtotal = %f, want 900000 unchanged", reloadedQW.GetFloat("subtotal"))
	}
}

func TestPromoteQuoteItem_InactiveItemRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-104")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Demolición")
	qi := testhelpers.CreateTestQuoteItem(t, app, item.Id, 100000, 0, 0)

	item.Set("active", false)
	if err := app.Save(item); err != nil {
		t.Fatalf("could not deactivate item: %v", err)
	}

	_, err := PromoteQuoteItem(app, qi.Id)
	if err == nil {
		t.Fatal("expected error promoting quote of inactive item")
	}
	if _, ok := AsValidationErrors(err); !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
}

func TestAdjustQuoteItem_AppliesMarkupAndPromotes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-105")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Instalaciones eléctricas")
	qi := testhelpers.CreateTestQuoteItem(t, app, item.Id, 1000000, 0, 0)

	adjusted, err := AdjustQuoteItem(app, qi.Id, 10, 200000, "Cableado y tablero")
	if err != nil {
		t.Fatalf("AdjustQuoteItem() error = %v", err)
	}

	if !floatClose(adjusted.GetFloat("ag_value"), 120000) {
		t.Errorf("ag_value = %f, want 120000", adjusted.GetFloat("ag_value"))
	}
	if !floatClose(adjusted.GetFloat("total_contractor"), 1320000) {
		t.Errorf("total_contractor = %f, want 1320000", adjusted.GetFloat("total_contractor"))
	}
	if adjusted.GetString("material_desc") != "Cableado y tablero" {
		t.Errorf("material_desc = %q", adjusted.GetString("material_desc"))
	}

	// adjustment of an unpromoted quote promotes it too, and the returned
	// record reflects the attachment rather than a pre-promotion copy
	qwID := adjusted.GetString("quote_work")
	if qwID == "" {
		t.Fatal("adjusted quote was not promoted")
	}
	stored, err := app.FindRecordById("quote_items", adjusted.Id)
	if err != nil {
		t.Fatalf("failed to reload adjusted quote: %v", err)
	}
	if stored.GetString("quote_work") != qwID {
		t.Errorf("returned attachment %q does not match stored %q", qwID, stored.GetString("quote_work"))
	}
	qw, _ := app.FindRecordById("quote_works", qwID)
	if !floatClose(qw.GetFloat("subtotal"), 1320000) {
		t.Errorf("aggregate subtotal = %f, want 1320000", qw.GetFloat("subtotal"))
	}
}

func TestAdjustQuoteItem_ZeroPercentRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-106")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Enchapes")
	qi := testhelpers.CreateTestQuoteItem(t, app, item.Id, 100000, 0, 0)

	_, err := AdjustQuoteItem(app, qi.Id, 0, 0, "")
	if err == nil {
		t.Fatal("expected error for zero AG percentage")
	}
	verrs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if _, present := verrs["managementPercentage"]; !present {
		t.Errorf("expected error on managementPercentage, got %v", verrs)
	}
}

func TestDetachQuoteItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-107")
	itemA := testhelpers.CreateTestItem(t, app, work.Id, "Estructura")
	itemB := testhelpers.CreateTestItem(t, app, work.Id, "Acabados")
	qiA := testhelpers.CreateTestQuoteItem(t, app, itemA.Id, 500000, 0, 0)
	qiB := testhelpers.CreateTestQuoteItem(t, app, itemB.Id, 300000, 0, 0)

	if _, err := PromoteQuoteItem(app, qiA.Id); err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}
	qw, err := PromoteQuoteItem(app, qiB.Id)
	if err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}

	if err := DetachQuoteItem(app, qiB.Id); err != nil {
		t.Fatalf("DetachQuoteItem() error = %v", err)
	}

	reloaded, _ := app.FindRecordById("quote_items", qiB.Id)
	if reloaded.GetString("quote_work") != "" {
		t.Errorf("quote still attached to %q", reloaded.GetString("quote_work"))
	}
	reloadedQW, _ := app.FindRecordById("quote_works", qw.Id)
	if !floatClose(reloadedQW.GetFloat("subtotal"), 500000) {
		t.Errorf("subtotal = %f, want 500000", reloadedQW.GetFloat("subtotal"))
	}

	// detaching again is a no-op
	if err := DetachQuoteItem(app, qiB.Id); err != nil {
		t.Fatalf("repeat DetachQuoteItem() error = %v", err)
	}
}

func TestCascadeItemDeactivation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-108")
	itemA := testhelpers.CreateTestItem(t, app, work.Id, "Redes hidráulicas")
	itemB := testhelpers.CreateTestItem(t, app, work.Id, "Redes sanitarias")
	qiA := testhelpers.CreateTestQuoteItem(t, app, itemA.Id, 500000, 100000, 50000)
	qiB := testhelpers.CreateTestQuoteItem(t, app, itemB.Id, 300000, 0, 0)

	if _, err := PromoteQuoteItem(app, qiA.Id); err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}
	qw, err := PromoteQuoteItem(app, qiB.Id)
	if err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}
	if !floatClose(qw.GetFloat("subtotal"), 950000) {
		t.Fatalf("subtotal = %f, want 950000", qw.GetFloat("subtotal"))
	}

	itemA.Set("active", false)
	if err := app.Save(itemA); err != nil {
		t.Fatalf("could not deactivate item: %v", err)
	}
	if err := CascadeItemDeactivation(app, itemA.Id); err != nil {
		t.Fatalf("CascadeItemDeactivation() error = %v", err)
	}

	// the deactivated item's quote is detached, not deleted
	reloaded, _ := app.FindRecordById("quote_items", qiA.Id)
	if reloaded.GetString("quote_work") != "" {
		t.Errorf("quote still attached to %q", reloaded.GetString("quote_work"))
	}

	// aggregate drops by exactly that quote's item total (650000)
	reloadedQW, _ := app.FindRecordById("quote_works", qw.Id)
	if !floatClose(reloadedQW.GetFloat("subtotal"), 300000) {
		t.Errorf("subtotal = %f, want 300000", reloadedQW.GetFloat("subtotal"))
	}
}

func TestReaggregate_DetachesInactiveMembers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-109")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Carpintería metálica")
	qi := testhelpers.CreateTestQuoteItem(t, app, item.Id, 400000, 0, 0)
	qw := testhelpers.CreateTestQuoteWork(t, app, work.Id)
	testhelpers.AttachQuoteToWork(t, app, qi, qw.Id)

	item.Set("active", false)
	if err := app.Save(item); err != nil {
		t.Fatalf("could not deactivate item: %v", err)
	}

	got, err := ReaggregateQuoteWork(app, qw.Id)
	if err != nil {
		t.Fatalf("ReaggregateQuoteWork() error = %v", err)
	}
	if got.GetFloat("subtotal") != 0 {
		t.Errorf("subtotal = %f, want 0", got.GetFloat("subtotal"))
	}

	reloaded, _ := app.FindRecordById("quote_items", qi.Id)
	if reloaded.GetString("quote_work") != "" {
		t.Errorf("inactive member still attached to %q", reloaded.GetString("quote_work"))
	}
}

func TestUpdateQuoteWorkSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-110")
	itemA := testhelpers.CreateTestItem(t, app, work.Id, "Obra gris")
	itemB := testhelpers.CreateTestItem(t, app, work.Id, "Obra blanca")
	qiA := testhelpers.CreateTestQuoteItem(t, app, itemA.Id, 500000, 0, 0)
	qiB := testhelpers.CreateTestQuoteItem(t, app, itemB.Id, 300000, 0, 0)

	if _, err := PromoteQuoteItem(app, qiA.Id); err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}
	if _, err := PromoteQuoteItem(app, qiB.Id); err != nil {
		t.Fatalf("PromoteQuoteItem() error = %v", err)
	}

	regime, err := AIU(10, 5, 8)
	if err != nil {
		t.Fatalf("AIU() error = %v", err)
	}
	qw, err := UpdateQuoteWorkSettings(app, work.Id, regime)
	if err != nil {
		t.Fatalf("UpdateQuoteWorkSettings() error = %v", err)
	}
	if qw.GetBool("vat") || qw.GetFloat("administration_percentage") != 10 {
		t.Errorf("AIU settings not stored: vat=%v admin=%f", qw.GetBool("vat"), qw.GetFloat("administration_percentage"))
	}

	// switching to vat clears the AIU percentages and recomputes totals
	qw, err = UpdateQuoteWorkSettings(app, work.Id, FlatVAT())
	if err != nil {
		t.Fatalf("UpdateQuoteWorkSettings() error = %v", err)
	}
	if !qw.GetBool("vat") {
		t.Error("vat flag not set")
	}
	if qw.GetFloat("administration_percentage") != 0 ||
		qw.GetFloat("contingencies_percentage") != 0 ||
		qw.GetFloat("profit_percentage") != 0 {
		t.Error("AIU percentages not cleared after selecting vat")
	}
	if !floatClose(qw.GetFloat("subtotal"), 800000) {
		t.Errorf("subtotal = %f, want 800000", qw.GetFloat("subtotal"))
	}
	if !floatClose(qw.GetFloat("total"), 952000) {
		t.Errorf("total = %f, want 952000", qw.GetFloat("total"))
	}
}

func TestEnsureQuoteWork_SinglePerWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-111")

	first, err := EnsureQuoteWork(app, work.Id)
	if err != nil {
		t.Fatalf("EnsureQuoteWork() error = %v", err)
	}
	second, err := EnsureQuoteWork(app, work.Id)
	if err != nil {
		t.Fatalf("repeat EnsureQuoteWork() error = %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("got two quote works %q and %q for one work", first.Id, second.Id)
	}
}

func TestEnsureQuoteWork_MissingWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := EnsureQuoteWork(app, "nonexistent"); err == nil {
		t.Fatal("expected error for missing work")
	}
}
