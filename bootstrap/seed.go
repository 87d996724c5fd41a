// Package bootstrap holds the startup tasks that run against a fully built
// schema: demo data seeding and repairs that go through the services layer.
// Only main imports it, keeping collections free of service dependencies.
package bootstrap

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineDef struct {
	description string
	quantity    float64
	unit        string
	unitPrice   float64
}

type quoteDef struct {
	contractorIdx int // index into contractorDefs, -1 for external
	externalName  string
	externalID    string
	materialDesc  string
	materialCost  float64
	vat           bool
	aiuAdmin      float64
	aiuConting    float64
	aiuProfit     float64
	lines         []lineDef
}

type itemDef struct {
	description   string
	personnel     map[string]any
	extras        map[string]any
	estimatedTime string
	quotes        []quoteDef
}

type workDef struct {
	code     string
	deadline string
	items    []itemDef
}

type contractorDef struct {
	identifier string
	name       string
}

var contractorDefs = []contractorDef{
	{"900845123-1", "Construcciones Andinas SAS"},
	{"901233870-4", "Obras y Acabados del Oriente"},
	{"79456210", "Jairo Mendoza Ingeniería"},
}

var workDefs = []workDef{
	{
		code:     "OBRA-2025-014 Bodega Funza",
		deadline: "2026-10-30 00:00:00.000Z",
		items: []itemDef{
			{
				description:   "Mampostería en bloque No.5, muros divisorios",
				personnel:     map[string]any{"oficiales": 2, "ayudantes": 3},
				extras:        map[string]any{"andamios": true},
				estimatedTime: "3 semanas",
				quotes: []quoteDef{
					{
						contractorIdx: 0,
						materialDesc:  "Bloque No.5, mortero de pega",
						materialCost:  4800000,
						vat:           true,
						lines: []lineDef{
							{"Levante de muro en bloque", 320, "m2", 38500},
							{"Resane y ranurado", 320, "m2", 6200},
						},
					},
					{
						contractorIdx: 1,
						materialCost:  0,
						aiuAdmin:      10,
						aiuConting:    5,
						aiuProfit:     8,
						lines: []lineDef{
							{"Levante de muro en bloque, incluye materiales", 320, "m2", 52000},
						},
					},
				},
			},
			{
				description:   "Pañete liso sobre muro, dos caras",
				personnel:     map[string]any{"oficiales": 3, "ayudantes": 2},
				estimatedTime: "2 semanas",
				quotes: []quoteDef{
					{
						contractorIdx: 2,
						materialDesc:  "Arena lavada y cemento gris",
						materialCost:  2300000,
						lines: []lineDef{
							{"Pañete liso e=2cm", 640, "m2", 14800},
						},
					},
					{
						contractorIdx: -1,
						externalName:  "Hernán Castro",
						externalID:    "17325648",
						materialCost:  0,
						vat:           true,
						lines: []lineDef{
							{"Pañete liso e=2cm, incluye materiales", 640, "m2", 19500},
						},
					},
				},
			},
		},
	},
	{
		code:     "OBRA-2025-021 Reforzamiento Sede Norte",
		deadline: "",
		items: []itemDef{
			{
				description:   "Demolición de placa de contrapiso",
				personnel:     map[string]any{"ayudantes": 4},
				extras:        map[string]any{"retiro_escombros": true, "volquetas": 2},
				estimatedTime: "1 semana",
				quotes:        nil,
			},
		},
	},
}

// Seed populates the collections with realistic construction quotation
// data: two works, their items, registered contractors and a handful of
// submitted quotes. It is safe to call on every startup because it returns
// early if any work records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if works already exist ─────────────────────
	worksCol, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		return fmt.Errorf("seed: could not find works collection: %w", err)
	}
	existing, err := app.FindAllRecords(worksCol)
	if err != nil {
		return fmt.Errorf("seed: could not query works: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: works collection is empty – inserting seed data …")

	contractorsCol, err := app.FindCollectionByNameOrId("contractors")
	if err != nil {
		return fmt.Errorf("seed: could not find contractors collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("items")
	if err != nil {
		return fmt.Errorf("seed: could not find items collection: %w", err)
	}

	// ── contractors ──────────────────────────────────────────────────
	contractorIDs := make([]string, len(contractorDefs))
	for i, d := range contractorDefs {
		r := core.NewRecord(contractorsCol)
		r.Set("identifier", d.identifier)
		r.Set("name", d.name)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not create contractor %q: %w", d.name, err)
		}
		contractorIDs[i] = r.Id
	}

	// ── works, items and quotes ──────────────────────────────────────
	for _, wd := range workDefs {
		work := core.NewRecord(worksCol)
		work.Set("code", wd.code)
		if wd.deadline != "" {
			work.Set("quotation_deadline", wd.deadline)
		}
		work.Set("finalized", false)
		if err := app.Save(work); err != nil {
			return fmt.Errorf("seed: could not create work %q: %w", wd.code, err)
		}

		for _, id := range wd.items {
			item := core.NewRecord(itemsCol)
			item.Set("work", work.Id)
			item.Set("description", id.description)
			item.Set("active", true)
			if id.personnel != nil {
				item.Set("personnel_required", id.personnel)
			}
			if id.extras != nil {
				item.Set("extras", id.extras)
			}
			if id.estimatedTime != "" {
				item.Set("estimated_execution_time", id.estimatedTime)
			}
			if err := app.Save(item); err != nil {
				return fmt.Errorf("seed: could not create item %q: %w", id.description, err)
			}

			for _, qd := range id.quotes {
				if err := seedQuote(app, item.Id, qd, contractorIDs); err != nil {
					return err
				}
			}
		}
	}

	log.Println("seed: finished inserting seed data.")
	return nil
}

// seedQuote submits one seed quote through the regular submission path so
// the stored figures match what the pricing engine would produce.
func seedQuote(app *pocketbase.PocketBase, itemID string, qd quoteDef, contractorIDs []string) error {
	lines := make([]services.QuoteLine, len(qd.lines))
	for i, l := range qd.lines {
		lines[i] = services.QuoteLine{
			Description: l.description,
			Quantity:    l.quantity,
			Unit:        l.unit,
			UnitPrice:   l.unitPrice,
		}
	}

	regime := services.NoTax()
	if qd.vat {
		regime = services.FlatVAT()
	} else if qd.aiuAdmin > 0 || qd.aiuConting > 0 || qd.aiuProfit > 0 {
		var err error
		regime, err = services.AIU(qd.aiuAdmin, qd.aiuConting, qd.aiuProfit)
		if err != nil {
			return fmt.Errorf("seed: invalid AIU percentages: %w", err)
		}
	}

	var identity services.ContractorIdentity
	var err error
	if qd.contractorIdx >= 0 {
		identity, err = services.InternalContractor(contractorIDs[qd.contractorIdx])
	} else {
		identity, err = services.ExternalContractor(qd.externalName, qd.externalID)
	}
	if err != nil {
		return fmt.Errorf("seed: invalid contractor identity: %w", err)
	}

	sub := services.QuoteSubmission{
		Lines:        lines,
		MaterialDesc: qd.materialDesc,
		MaterialCost: qd.materialCost,
		Regime:       regime,
		Identity:     identity,
	}
	if _, err := services.SubmitQuote(app, itemID, sub, time.Now()); err != nil {
		return fmt.Errorf("seed: could not submit quote for item %s: %w", itemID, err)
	}
	return nil
}
