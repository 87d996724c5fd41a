package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateProposalPDF creates a PDF document for a work proposal using
// maroto/v2. It returns the raw PDF bytes or an error.
func GenerateProposalPDF(data *ProposalData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, data)
	addProposalTable(m, data)
	addProposalTotals(m, data)
	addProposalPending(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addProposalHeader adds the work code, "PROPUESTA" title, generation date
// and quotation deadline.
func addProposalHeader(m core.Maroto, data *ProposalData) {
	// Row 1: Work code (left) + PROPUESTA title (right)
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.WorkCode, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("PROPUESTA", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	// Row 2: generation date (left) + deadline (right)
	subtitle := props.Text{
		Size:  8,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	rightSubtitle := subtitle
	rightSubtitle.Align = align.Right

	deadline := ""
	if data.Deadline != "" {
		deadline = fmt.Sprintf("Cierre de cotizaciones: %s", data.Deadline)
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(text.New(fmt.Sprintf("Fecha: %s", data.GeneratedDate), subtitle)),
			col.New(6).Add(text.New(deadline, rightSubtitle)),
		),
	)

	// Divider spacer
	m.AddRows(row.New(3))
}

// addProposalTable adds the finalized items table.
func addProposalTable(m core.Maroto, data *ProposalData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Item", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Contratista", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Subtotal", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Materiales", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("AG", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Total", headerText)).WithStyle(&headerCell),
		),
	)

	// Table body with alternating backgrounds
	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	for i, r := range data.Rows {
		bodyText := props.Text{Size: 7, Align: align.Center}
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		colIndex := col.New(1).Add(text.New(fmt.Sprintf("%d", r.Index), bodyText))
		colDesc := col.New(4).Add(text.New(r.Description, bodyTextLeft))
		colContractor := col.New(2).Add(text.New(r.ContractorName, bodyTextLeft))
		colSubtotal := col.New(2).Add(text.New(FormatCOP(r.Subtotal), bodyTextRight))
		colMaterial := col.New(1).Add(text.New(FormatCOP(r.MaterialCost), bodyTextRight))
		colAG := col.New(1).Add(text.New(FormatCOP(r.AGValue), bodyTextRight))
		colTotal := col.New(1).Add(text.New(FormatCOP(r.ItemTotal), bodyTextRight))

		if cellStyle != nil {
			colIndex = colIndex.WithStyle(cellStyle)
			colDesc = colDesc.WithStyle(cellStyle)
			colContractor = colContractor.WithStyle(cellStyle)
			colSubtotal = colSubtotal.WithStyle(cellStyle)
			colMaterial = colMaterial.WithStyle(cellStyle)
			colAG = colAG.WithStyle(cellStyle)
			colTotal = colTotal.WithStyle(cellStyle)
		}

		m.AddRows(
			row.New(7).Add(
				colIndex, colDesc, colContractor, colSubtotal,
				colMaterial, colAG, colTotal,
			),
		)
	}

	m.AddRows(row.New(2))
}

// addProposalTotals adds the right-aligned aggregate rows: subtotal, tax
// breakdown per regime, and the grand total.
func addProposalTotals(m core.Maroto, data *ProposalData) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	addSummaryRow := func(label string, amount float64) {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(FormatCOP(amount), valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	addSummaryRow("Subtotal", data.Subtotal)

	if data.Tax.VAT > 0 {
		addSummaryRow(data.RegimeLabel, data.Tax.VAT)
	}
	if data.Tax.Administration > 0 {
		addSummaryRow("Administración", data.Tax.Administration)
	}
	if data.Tax.Contingencies > 0 {
		addSummaryRow("Imprevistos", data.Tax.Contingencies)
	}
	if data.Tax.Profit > 0 {
		addSummaryRow("Utilidad", data.Tax.Profit)
	}
	if data.Tax.VATOnProfit > 0 {
		addSummaryRow("IVA sobre utilidad", data.Tax.VATOnProfit)
	}

	// Grand total
	grandBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	grandLabel := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	grandValue := grandLabel

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Total", grandLabel)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatCOP(data.Total), grandValue)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

// addProposalPending lists active items that still have no selected quote.
func addProposalPending(m core.Maroto, data *ProposalData) {
	if len(data.PendingItems) == 0 {
		return
	}

	sectionLabel := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("ITEMS SIN COTIZACIÓN SELECCIONADA", sectionLabel)),
		),
	)
	for _, desc := range data.PendingItems {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("- "+desc, props.Text{
					Size:  8,
					Align: align.Left,
				})),
			),
		)
	}
}
