package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// sanitizeFilename makes a work code safe for a Content-Disposition header.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, ":", "-")
	return name
}

// HandleProposalExportPDF generates the client proposal PDF for a work and
// returns it as a download.
func HandleProposalExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")

		data, err := services.BuildProposalData(app, workID)
		if err != nil {
			return respondError(e, "export pdf", err)
		}

		pdfBytes, err := services.GenerateProposalPDF(data)
		if err != nil {
			log.Printf("export: PDF generation for work %s: %v", workID, err)
			return e.JSON(http.StatusInternalServerError, errorBody{Message: "failed to generate PDF"})
		}

		filename := fmt.Sprintf("Propuesta-%s.pdf", sanitizeFilename(data.WorkCode))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}

// HandleProposalExportExcel generates the proposal workbook for a work and
// returns it as a download.
func HandleProposalExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")

		data, err := services.BuildProposalData(app, workID)
		if err != nil {
			return respondError(e, "export excel", err)
		}

		excelBytes, err := services.GenerateProposalExcel(data)
		if err != nil {
			log.Printf("export: Excel generation for work %s: %v", workID, err)
			return e.JSON(http.StatusInternalServerError, errorBody{Message: "failed to generate Excel file"})
		}

		filename := fmt.Sprintf("Propuesta-%s.xlsx", sanitizeFilename(data.WorkCode))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		_, err = e.Response.Write(excelBytes)
		return err
	}
}
