package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// workJSON renders a works record for API responses.
func workJSON(work *core.Record) map[string]any {
	deadline := ""
	if dt := work.GetDateTime("quotation_deadline"); !dt.IsZero() {
		deadline = dt.String()
	}
	return map[string]any{
		"id":                work.Id,
		"code":              work.GetString("code"),
		"quotationDeadline": deadline,
		"finalized":         work.GetBool("finalized"),
	}
}

// itemJSON renders an items record. The personnel and extras bags are kept
// as open key-value maps so unknown keys survive a round trip.
func itemJSON(item *core.Record) map[string]any {
	personnel := map[string]any{}
	if err := item.UnmarshalJSONField("personnel_required", &personnel); err != nil {
		personnel = map[string]any{}
	}
	extras := map[string]any{}
	if err := item.UnmarshalJSONField("extras", &extras); err != nil {
		extras = map[string]any{}
	}
	return map[string]any{
		"id":                     item.Id,
		"work":                   item.GetString("work"),
		"description":            item.GetString("description"),
		"personnelRequired":      personnel,
		"extras":                 extras,
		"estimatedExecutionTime": item.GetString("estimated_execution_time"),
		"active":                 item.GetBool("active"),
		"contractor":             item.GetString("contractor"),
	}
}

// quoteItemJSON renders a quote_items record including its priced lines.
func quoteItemJSON(qi *core.Record) map[string]any {
	var lines []services.QuoteLine
	if err := qi.UnmarshalJSONField("subquotations", &lines); err != nil {
		log.Printf("serialize: quote %s has malformed subquotations: %v", qi.Id, err)
		lines = nil
	}
	return map[string]any{
		"id":                       qi.Id,
		"item":                     qi.GetString("item"),
		"lines":                    lines,
		"materialDesc":             qi.GetString("material_desc"),
		"materialCost":             qi.GetFloat("material_cost"),
		"subtotal":                 qi.GetFloat("subtotal"),
		"vat":                      qi.GetBool("vat"),
		"administrationPercentage": qi.GetFloat("administration_percentage"),
		"contingenciesPercentage":  qi.GetFloat("contingencies_percentage"),
		"profitPercentage":         qi.GetFloat("profit_percentage"),
		"taxAmount":                qi.GetFloat("tax_amount"),
		"totalContractor":          qi.GetFloat("total_contractor"),
		"managementPercentage":     qi.GetFloat("management_percentage"),
		"agValue":                  qi.GetFloat("ag_value"),
		"quoteWork":                qi.GetString("quote_work"),
		"contractor":               qi.GetString("contractor"),
		"externalName":             qi.GetString("external_name"),
		"externalIdentifier":       qi.GetString("external_identifier"),
	}
}

// quoteWorkJSON renders a quote_works record.
func quoteWorkJSON(qw *core.Record) map[string]any {
	return map[string]any{
		"id":                       qw.Id,
		"work":                     qw.GetString("work"),
		"subtotal":                 qw.GetFloat("subtotal"),
		"total":                    qw.GetFloat("total"),
		"vat":                      qw.GetBool("vat"),
		"administrationPercentage": qw.GetFloat("administration_percentage"),
		"contingenciesPercentage":  qw.GetFloat("contingencies_percentage"),
		"profitPercentage":         qw.GetFloat("profit_percentage"),
	}
}
