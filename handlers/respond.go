package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// errorBody is the JSON shape every error response uses. Field-level
// validation messages ride in Fields; Message is a single user-facing line.
type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// respondError maps a service error onto an HTTP status and JSON body:
// validation errors to 400 with field messages, a losing selection to 409,
// an expired quotation window to 410, missing records to 404, everything
// else to 500. The context string prefixes the server log line.
func respondError(e *core.RequestEvent, context string, err error) error {
	if verrs, ok := services.AsValidationErrors(err); ok {
		return e.JSON(http.StatusBadRequest, errorBody{
			Message: "Validation failed",
			Fields:  verrs,
		})
	}
	if errors.Is(err, services.ErrQuoteConflict) {
		return e.JSON(http.StatusConflict, errorBody{
			Message: "A quote for this item has already been selected",
		})
	}
	if errors.Is(err, services.ErrDeadlineExpired) {
		return e.JSON(http.StatusGone, errorBody{
			Message: "The quotation deadline for this work has passed",
		})
	}
	if errors.Is(err, sql.ErrNoRows) {
		return e.JSON(http.StatusNotFound, errorBody{
			Message: "Resource not found",
		})
	}

	log.Printf("%s: %v", context, err)
	return e.JSON(http.StatusInternalServerError, errorBody{
		Message: "Something went wrong. Please try again.",
	})
}

// badRequest is a shortcut for malformed payloads.
func badRequest(e *core.RequestEvent, message string) error {
	return e.JSON(http.StatusBadRequest, errorBody{Message: message})
}
