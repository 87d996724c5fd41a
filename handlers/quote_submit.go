package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

type quoteRequest struct {
	Lines                    []services.QuoteLine `json:"lines"`
	MaterialDesc             string               `json:"materialDesc"`
	MaterialCost             float64              `json:"materialCost"`
	VAT                      bool                 `json:"vat"`
	AdministrationPercentage float64              `json:"administrationPercentage"`
	ContingenciesPercentage  float64              `json:"contingenciesPercentage"`
	ProfitPercentage         float64              `json:"profitPercentage"`
	Contractor               string               `json:"contractor"`
	ExternalName             string               `json:"externalName"`
	ExternalIdentifier       string               `json:"externalIdentifier"`
}

// regimeFromRequest validates the tax fields of a quote request.
func regimeFromRequest(req quoteRequest) (services.TaxRegime, error) {
	if req.VAT {
		return services.FlatVAT(), nil
	}
	if req.AdministrationPercentage > 0 || req.ContingenciesPercentage > 0 || req.ProfitPercentage > 0 {
		return services.AIU(req.AdministrationPercentage, req.ContingenciesPercentage, req.ProfitPercentage)
	}
	return services.NoTax(), nil
}

func submissionFromRequest(req quoteRequest, identity services.ContractorIdentity) (services.QuoteSubmission, error) {
	regime, err := regimeFromRequest(req)
	if err != nil {
		return services.QuoteSubmission{}, err
	}
	return services.QuoteSubmission{
		Lines:        req.Lines,
		MaterialDesc: req.MaterialDesc,
		MaterialCost: req.MaterialCost,
		Regime:       regime,
		Identity:     identity,
	}, nil
}

// HandleQuoteSubmit records a quote from a registered contractor.
func HandleQuoteSubmit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		identity, err := services.InternalContractor(req.Contractor)
		if err != nil {
			return respondError(e, "quote submit", err)
		}
		sub, err := submissionFromRequest(req, identity)
		if err != nil {
			return respondError(e, "quote submit", err)
		}
		qi, err := services.SubmitQuote(app, e.Request.PathValue("itemId"), sub, time.Now())
		if err != nil {
			return respondError(e, "quote submit", err)
		}
		return e.JSON(http.StatusCreated, quoteItemJSON(qi))
	}
}

// HandleExternalQuoteSubmit records a quote from a contractor that is not
// registered in the system. These are gated by the work's quotation deadline.
func HandleExternalQuoteSubmit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		identity, err := services.ExternalContractor(req.ExternalName, req.ExternalIdentifier)
		if err != nil {
			return respondError(e, "external quote submit", err)
		}
		sub, err := submissionFromRequest(req, identity)
		if err != nil {
			return respondError(e, "external quote submit", err)
		}
		qi, err := services.SubmitQuote(app, e.Request.PathValue("itemId"), sub, time.Now())
		if err != nil {
			return respondError(e, "external quote submit", err)
		}
		return e.JSON(http.StatusCreated, quoteItemJSON(qi))
	}
}

// HandleItemQuotesList returns every quote submitted for an item.
func HandleItemQuotesList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if _, err := app.FindRecordById("items", itemID); err != nil {
			return respondError(e, "item quotes list", err)
		}
		quotes, err := app.FindRecordsByFilter("quote_items", "item = {:item}", "created", 0, 0,
			map[string]any{"item": itemID})
		if err != nil {
			return respondError(e, "item quotes list", err)
		}
		out := make([]map[string]any, 0, len(quotes))
		for _, q := range quotes {
			out = append(out, quoteItemJSON(q))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleQuoteGet returns a single quote.
func HandleQuoteGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		qi, err := app.FindRecordById("quote_items", e.Request.PathValue("quoteId"))
		if err != nil {
			return respondError(e, "quote get", err)
		}
		return e.JSON(http.StatusOK, quoteItemJSON(qi))
	}
}

// HandleQuoteUpdate reprices an existing quote. The contractor identity is
// fixed at submission time, so the identity fields of the request are
// ignored here.
func HandleQuoteUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "invalid request body")
		}
		sub, err := submissionFromRequest(req, services.ContractorIdentity{})
		if err != nil {
			return respondError(e, "quote update", err)
		}
		qi, err := services.UpdateQuote(app, e.Request.PathValue("quoteId"), sub)
		if err != nil {
			return respondError(e, "quote update", err)
		}
		return e.JSON(http.StatusOK, quoteItemJSON(qi))
	}
}
