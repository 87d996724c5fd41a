package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ProposalRow is one finalized item line in the work proposal export.
type ProposalRow struct {
	Index          int
	Description    string
	ContractorName string
	Subtotal       float64
	MaterialCost   float64
	AGValue        float64
	ItemTotal      float64
}

// ProposalData holds all data needed to export a work proposal as PDF or
// Excel: one row per finalized quote plus the aggregate figures and the
// items still awaiting a selection.
type ProposalData struct {
	WorkCode      string
	GeneratedDate string
	Deadline      string

	Rows         []ProposalRow
	PendingItems []string

	Subtotal    float64
	Tax         TaxBreakdown
	RegimeLabel string
	Total       float64
}

// BuildProposalData assembles the proposal export from the work's records.
// Items are partitioned into finalized (a promoted quote exists) and
// pending; inactive items are skipped entirely.
func BuildProposalData(app core.App, workID string) (*ProposalData, error) {
	work, err := app.FindRecordById("works", workID)
	if err != nil {
		return nil, fmt.Errorf("work not found: %w", err)
	}

	data := &ProposalData{
		WorkCode:      work.GetString("code"),
		GeneratedDate: time.Now().Format("02/01/2006"),
	}
	if deadline := work.GetDateTime("quotation_deadline"); !deadline.IsZero() {
		data.Deadline = deadline.Time().Format("02/01/2006")
	}

	items, err := app.FindRecordsByFilter(
		"items",
		"work = {:work} && active = true",
		"created",
		0,
		0,
		map[string]any{"work": workID},
	)
	if err != nil {
		return nil, fmt.Errorf("could not list items: %w", err)
	}

	regime := NoTax()
	quoteWorks, err := app.FindRecordsByFilter(
		"quote_works",
		"work = {:work}",
		"",
		1,
		0,
		map[string]any{"work": workID},
	)
	if err != nil {
		return nil, fmt.Errorf("could not look up quote work: %w", err)
	}
	if len(quoteWorks) > 0 {
		regime = QuoteWorkRegime(quoteWorks[0])
	}

	index := 0
	var figures []QuoteFigures
	for _, item := range items {
		promoted, err := app.FindRecordsByFilter(
			"quote_items",
			"item = {:item} && quote_work != ''",
			"",
			1,
			0,
			map[string]any{"item": item.Id},
		)
		if err != nil {
			return nil, fmt.Errorf("could not list quotes: %w", err)
		}
		if len(promoted) == 0 {
			data.PendingItems = append(data.PendingItems, item.GetString("description"))
			continue
		}

		qi := promoted[0]
		fig := QuoteFigures{
			Subtotal:     qi.GetFloat("subtotal"),
			MaterialCost: qi.GetFloat("material_cost"),
			AGValue:      qi.GetFloat("ag_value"),
		}
		figures = append(figures, fig)

		index++
		data.Rows = append(data.Rows, ProposalRow{
			Index:          index,
			Description:    item.GetString("description"),
			ContractorName: contractorDisplayName(app, qi),
			Subtotal:       fig.Subtotal,
			MaterialCost:   fig.MaterialCost,
			AGValue:        fig.AGValue,
			ItemTotal:      fig.ItemTotal(),
		})
	}

	agg := AggregateQuotes(figures, regime)
	data.Subtotal = agg.Subtotal
	data.Tax = agg.Tax
	data.Total = agg.Total
	data.RegimeLabel = regimeLabel(regime)

	return data, nil
}

// contractorDisplayName resolves who submitted a quote, preferring the
// linked contractor record and falling back to the external identity.
func contractorDisplayName(app core.App, qi *core.Record) string {
	if contractorID := qi.GetString("contractor"); contractorID != "" {
		c, err := app.FindRecordById("contractors", contractorID)
		if err == nil {
			return c.GetString("name")
		}
	}
	return qi.GetString("external_name")
}

// regimeLabel renders a regime for document headers.
func regimeLabel(regime TaxRegime) string {
	switch {
	case regime.IsVAT():
		return fmt.Sprintf("IVA (%.0f%%)", DefaultVATRate)
	case regime.IsAIU():
		admin, conting, profit := regime.AIUPercentages()
		return fmt.Sprintf("AIU %.0f/%.0f/%.0f + IVA sobre utilidad", admin, conting, profit)
	default:
		return "Sin impuestos"
	}
}
