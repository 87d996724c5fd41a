package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

type itemRequest struct {
	Description            string         `json:"description"`
	PersonnelRequired      map[string]any `json:"personnelRequired"`
	Extras                 map[string]any `json:"extras"`
	EstimatedExecutionTime string         `json:"estimatedExecutionTime"`
	Active                 *bool          `json:"active"`
	Contractor             string         `json:"contractor"`
}

// HandleItemsList returns the items of a work, oldest first so the listing
// matches the order they were captured in.
func HandleItemsList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		if _, err := app.FindRecordById("works", workID); err != nil {
			return respondError(e, "items list", err)
		}
		items, err := app.FindRecordsByFilter("items", "work = {:work}", "created", 0, 0,
			map[string]any{"work": workID})
		if err != nil {
			return respondError(e, "items list", err)
		}
		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, itemJSON(it))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleItemCreate creates an item under a work.
func HandleItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		if _, err := app.FindRecordById("works", workID); err != nil {
			return respondError(e, "item create", err)
		}
		var req itemRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		req.Description = strings.TrimSpace(req.Description)
		if req.Description == "" {
			return respondError(e, "item create", services.ValidationErrors{"description": "description is required"})
		}

		col, err := app.FindCollectionByNameOrId("items")
		if err != nil {
			return respondError(e, "item create", err)
		}
		item := core.NewRecord(col)
		item.Set("work", workID)
		item.Set("description", req.Description)
		item.Set("personnel_required", req.PersonnelRequired)
		item.Set("extras", req.Extras)
		item.Set("estimated_execution_time", req.EstimatedExecutionTime)
		item.Set("active", true)
		if req.Contractor != "" {
			item.Set("contractor", req.Contractor)
		}
		if err := app.Save(item); err != nil {
			return respondError(e, "item create", err)
		}
		return e.JSON(http.StatusCreated, itemJSON(item))
	}
}

// HandleItemGet returns a single item.
func HandleItemGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		item, err := app.FindRecordById("items", e.Request.PathValue("itemId"))
		if err != nil {
			return respondError(e, "item get", err)
		}
		return e.JSON(http.StatusOK, itemJSON(item))
	}
}

// HandleItemUpdate updates an item. Deactivating an item detaches any of its
// quotes that were counted in a quote work and recomputes those totals.
func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		item, err := app.FindRecordById("items", itemID)
		if err != nil {
			return respondError(e, "item update", err)
		}
		var req itemRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		if desc := strings.TrimSpace(req.Description); desc != "" {
			item.Set("description", desc)
		}
		if req.PersonnelRequired != nil {
			item.Set("personnel_required", req.PersonnelRequired)
		}
		if req.Extras != nil {
			item.Set("extras", req.Extras)
		}
		if req.EstimatedExecutionTime != "" {
			item.Set("estimated_execution_time", req.EstimatedExecutionTime)
		}
		if req.Contractor != "" {
			item.Set("contractor", req.Contractor)
		}

		deactivated := req.Active != nil && !*req.Active && item.GetBool("active")
		if req.Active != nil {
			item.Set("active", *req.Active)
		}
		if err := app.Save(item); err != nil {
			return respondError(e, "item update", err)
		}
		if deactivated {
			if err := services.CascadeItemDeactivation(app, itemID); err != nil {
				log.Printf("item update: cascade for %s: %v", itemID, err)
				return respondError(e, "item update", err)
			}
		}
		return e.JSON(http.StatusOK, itemJSON(item))
	}
}

// HandleItemDelete removes an item. Its quotes cascade away, so any quote
// work that counted one of them is recomputed afterwards.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		item, err := app.FindRecordById("items", itemID)
		if err != nil {
			return respondError(e, "item delete", err)
		}

		quotes, err := app.FindRecordsByFilter("quote_items",
			"item = {:item} && quote_work != ''", "", 0, 0,
			map[string]any{"item": itemID})
		if err != nil {
			return respondError(e, "item delete", err)
		}
		touched := map[string]bool{}
		for _, q := range quotes {
			touched[q.GetString("quote_work")] = true
		}

		if err := app.Delete(item); err != nil {
			return respondError(e, "item delete", err)
		}
		for qwID := range touched {
			if _, err := services.ReaggregateQuoteWork(app, qwID); err != nil {
				log.Printf("item delete: reaggregate %s: %v", qwID, err)
				return respondError(e, "item delete", err)
			}
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}
