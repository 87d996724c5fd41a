package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuoteWorkSummary returns the selection state of a work: one row per
// active item with a selected quote, the items still waiting for a
// selection, and the aggregate totals under the work's tax regime.
func HandleQuoteWorkSummary(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		data, err := services.BuildProposalData(app, workID)
		if err != nil {
			return respondError(e, "quote work summary", err)
		}

		rows := make([]map[string]any, 0, len(data.Rows))
		for _, r := range data.Rows {
			rows = append(rows, map[string]any{
				"description":    r.Description,
				"contractorName": r.ContractorName,
				"subtotal":       r.Subtotal,
				"materialCost":   r.MaterialCost,
				"agValue":        r.AGValue,
				"itemTotal":      r.ItemTotal,
			})
		}
		out := map[string]any{
			"workCode":     data.WorkCode,
			"rows":         rows,
			"pendingItems": data.PendingItems,
			"subtotal":     data.Subtotal,
			"tax":          data.Tax,
			"regimeLabel":  data.RegimeLabel,
			"total":        data.Total,
		}

		qws, err := app.FindRecordsByFilter("quote_works", "work = {:work}", "", 1, 0,
			map[string]any{"work": workID})
		if err != nil {
			return respondError(e, "quote work summary", err)
		}
		if len(qws) > 0 {
			out["quoteWork"] = quoteWorkJSON(qws[0])
		}
		return e.JSON(http.StatusOK, out)
	}
}

type settingsRequest struct {
	VAT                      bool    `json:"vat"`
	AdministrationPercentage float64 `json:"administrationPercentage"`
	ContingenciesPercentage  float64 `json:"contingenciesPercentage"`
	ProfitPercentage         float64 `json:"profitPercentage"`
}

// HandleQuoteWorkSettings changes the tax regime of a work's quote work and
// recomputes its totals.
func HandleQuoteWorkSettings(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req settingsRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}

		var regime services.TaxRegime
		switch {
		case req.VAT:
			regime = services.FlatVAT()
		case req.AdministrationPercentage > 0 || req.ContingenciesPercentage > 0 || req.ProfitPercentage > 0:
			var err error
			regime, err = services.AIU(req.AdministrationPercentage, req.ContingenciesPercentage, req.ProfitPercentage)
			if err != nil {
				return respondError(e, "quote work settings", err)
			}
		default:
			regime = services.NoTax()
		}

		qw, err := services.UpdateQuoteWorkSettings(app, e.Request.PathValue("workId"), regime)
		if err != nil {
			return respondError(e, "quote work settings", err)
		}
		return e.JSON(http.StatusOK, quoteWorkJSON(qw))
	}
}
