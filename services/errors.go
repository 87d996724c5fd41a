package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the selection/aggregation flow. Handlers map these to
// HTTP statuses; services never write responses themselves.
var (
	// ErrQuoteConflict is returned when an item already has a promoted quote
	// and a second one is being selected, or when a contractor submits a
	// second quote for the same item.
	ErrQuoteConflict = errors.New("item already has a selected quote")

	// ErrDeadlineExpired is returned when an external contractor submits a
	// quote after the work's quotation deadline.
	ErrDeadlineExpired = errors.New("quotation deadline has passed")
)

// ValidationErrors maps field names to messages, mirroring the per-field
// error maps the handlers render.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationErrors unwraps err into a ValidationErrors map, if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
