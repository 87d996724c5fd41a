package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

type workRequest struct {
	Code              string `json:"code"`
	QuotationDeadline string `json:"quotationDeadline"`
	Finalized         *bool  `json:"finalized"`
}

// HandleWorksList returns every work, newest first.
func HandleWorksList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		works, err := app.FindRecordsByFilter("works", "id != ''", "-created", 0, 0)
		if err != nil {
			return respondError(e, "works list", err)
		}
		out := make([]map[string]any, 0, len(works))
		for _, w := range works {
			out = append(out, workJSON(w))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleWorkCreate creates a new work.
func HandleWorkCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req workRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		req.Code = strings.TrimSpace(req.Code)
		if req.Code == "" {
			return respondError(e, "work create", services.ValidationErrors{"code": "code is required"})
		}

		col, err := app.FindCollectionByNameOrId("works")
		if err != nil {
			return respondError(e, "work create", err)
		}
		work := core.NewRecord(col)
		work.Set("code", req.Code)
		if req.QuotationDeadline != "" {
			work.Set("quotation_deadline", req.QuotationDeadline)
		}
		if err := app.Save(work); err != nil {
			return respondError(e, "work create", err)
		}
		return e.JSON(http.StatusCreated, workJSON(work))
	}
}

// HandleWorkGet returns a single work.
func HandleWorkGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "work get", err)
		}
		return e.JSON(http.StatusOK, workJSON(work))
	}
}

// HandleWorkUpdate updates the mutable fields of a work.
func HandleWorkUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "work update", err)
		}
		var req workRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		if code := strings.TrimSpace(req.Code); code != "" {
			work.Set("code", code)
		}
		if req.QuotationDeadline != "" {
			work.Set("quotation_deadline", req.QuotationDeadline)
		}
		if req.Finalized != nil {
			work.Set("finalized", *req.Finalized)
		}
		if err := app.Save(work); err != nil {
			return respondError(e, "work update", err)
		}
		return e.JSON(http.StatusOK, workJSON(work))
	}
}

// HandleWorkDelete removes a work. Items, quote works and quotes cascade
// through the relation fields.
func HandleWorkDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "work delete", err)
		}
		if err := app.Delete(work); err != nil {
			return respondError(e, "work delete", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}
