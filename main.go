package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/bootstrap"
	"quotationdesk/collections"
	"quotationdesk/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := bootstrap.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := bootstrap.MigrateDetachInactiveQuotes(app); err != nil {
			log.Printf("Warning: inactive-quote migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Works ────────────────────────────────────────────────
		se.Router.GET("/api/works", handlers.HandleWorksList(app))
		se.Router.POST("/api/works", handlers.HandleWorkCreate(app))
		se.Router.GET("/api/works/{id}", handlers.HandleWorkGet(app))
		se.Router.PATCH("/api/works/{id}", handlers.HandleWorkUpdate(app))
		se.Router.DELETE("/api/works/{id}", handlers.HandleWorkDelete(app))

		// ── Items ────────────────────────────────────────────────
		se.Router.GET("/api/works/{workId}/items", handlers.HandleItemsList(app))
		se.Router.POST("/api/works/{workId}/items", handlers.HandleItemCreate(app))
		se.Router.GET("/api/items/{itemId}", handlers.HandleItemGet(app))
		se.Router.PATCH("/api/items/{itemId}", handlers.HandleItemUpdate(app))
		se.Router.DELETE("/api/items/{itemId}", handlers.HandleItemDelete(app))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/api/items/{itemId}/quotes", handlers.HandleItemQuotesList(app))
		se.Router.POST("/api/items/{itemId}/quotes", handlers.HandleQuoteSubmit(app))
		se.Router.POST("/api/items/{itemId}/external-quotes", handlers.HandleExternalQuoteSubmit(app))
		se.Router.GET("/api/quotes/{quoteId}", handlers.HandleQuoteGet(app))
		se.Router.PATCH("/api/quotes/{quoteId}", handlers.HandleQuoteUpdate(app))

		// ── Quote selection ──────────────────────────────────────
		se.Router.POST("/api/quotes/{quoteId}/select", handlers.HandleQuoteSelect(app))
		se.Router.POST("/api/quotes/{quoteId}/adjust", handlers.HandleQuoteAdjust(app))
		se.Router.POST("/api/quotes/{quoteId}/deselect", handlers.HandleQuoteDeselect(app))

		// ── Work quote summary and settings ──────────────────────
		se.Router.GET("/api/works/{workId}/quote", handlers.HandleQuoteWorkSummary(app))
		se.Router.PUT("/api/works/{workId}/quote/settings", handlers.HandleQuoteWorkSettings(app))

		// ── Document export ──────────────────────────────────────
		se.Router.GET("/api/works/{workId}/quote/export/pdf", handlers.HandleProposalExportPDF(app))
		se.Router.GET("/api/works/{workId}/quote/export/excel", handlers.HandleProposalExportExcel(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
