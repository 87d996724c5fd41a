package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuoteSelect promotes a quote into its work's quote work. At most one
// quote per item may be selected; picking a second one returns a conflict.
func HandleQuoteSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		qw, err := services.PromoteQuoteItem(app, e.Request.PathValue("quoteId"))
		if err != nil {
			return respondError(e, "quote select", err)
		}
		return e.JSON(http.StatusOK, quoteWorkJSON(qw))
	}
}

type adjustRequest struct {
	ManagementPercentage float64 `json:"managementPercentage"`
	MaterialCost         float64 `json:"materialCost"`
	MaterialDesc         string  `json:"materialDesc"`
}

// HandleQuoteAdjust applies the management markup to a quote and selects it.
func HandleQuoteAdjust(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req adjustRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		qi, err := services.AdjustQuoteItem(app, e.Request.PathValue("quoteId"),
			req.ManagementPercentage, req.MaterialCost, req.MaterialDesc)
		if err != nil {
			return respondError(e, "quote adjust", err)
		}
		return e.JSON(http.StatusOK, quoteItemJSON(qi))
	}
}

// HandleQuoteDeselect detaches a quote from its quote work and recomputes the
// totals. Deselecting a quote that was never selected is a no-op.
func HandleQuoteDeselect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DetachQuoteItem(app, e.Request.PathValue("quoteId")); err != nil {
			return respondError(e, "quote deselect", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"selected": false})
	}
}
