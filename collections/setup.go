package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the works, contractors, items,
// quote_works and quote_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	works := ensureCollection(app, "works", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.DateField{Name: "quotation_deadline", Required: false})
		c.Fields.Add(&core.BoolField{Name: "finalized", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	contractors := ensureCollection(app, "contractors", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "identifier", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	items := ensureCollection(app, "items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.JSONField{Name: "personnel_required", Required: false})
		c.Fields.Add(&core.JSONField{Name: "extras", Required: false})
		c.Fields.Add(&core.TextField{Name: "estimated_execution_time", Required: false})
		c.Fields.Add(&core.BoolField{Name: "active", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "contractor",
			Required:     false,
			CollectionId: contractors.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	quoteWorks := ensureCollection(app, "quote_works", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.BoolField{Name: "vat", Required: false})
		c.Fields.Add(&core.NumberField{Name: "administration_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contingencies_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit_percentage", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quote_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.JSONField{Name: "subquotations", Required: false})
		c.Fields.Add(&core.TextField{Name: "material_desc", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.BoolField{Name: "vat", Required: false})
		c.Fields.Add(&core.NumberField{Name: "administration_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contingencies_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_contractor", Required: false})
		c.Fields.Add(&core.NumberField{Name: "management_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "ag_value", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "quote_work",
			Required:     false,
			CollectionId: quoteWorks.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "contractor",
			Required:     false,
			CollectionId: contractors.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "external_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "external_identifier", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
