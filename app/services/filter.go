// Package services implements the application logic: the pure filter and
// reminder engines over in-memory customer snapshots, and the stateful
// services that feed them from the repositories.
package services

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/pkg/collection"
)

// Date-field modes for FilterSpec.
const (
	DateFieldAll        = "all"
	DateFieldOrder      = "order"
	DateFieldCollection = "collection"
)

// FilterSpec describes one dashboard filter request. Zero value matches
// everything.
type FilterSpec struct {
	// Search is trimmed, then matched case-insensitively as a substring of
	// name, email and address, and against the stored phone string. Empty
	// matches all.
	Search string
	// Status filters on the derived payment state ("paid", "partial",
	// "not_paid", plus legacy aliases). "all" or empty disables.
	Status string
	// DateField selects which dates the range applies to: "order",
	// "collection", or "all" (either date in range).
	DateField string
	// From/To are inclusive day bounds; either may be empty for unbounded.
	From string
	To   string
}

// FilterResult is the filtered view plus a count of records excluded from
// date matching because their dates would not parse.
type FilterResult struct {
	Customers []models.Customer
	Skipped   int
}

// FilterCustomers applies spec to the snapshot. Pure: the input slice is
// never mutated, output order follows input order, and the stages compose
// as AND so their evaluation order cannot change the result.
func FilterCustomers(customers []models.Customer, spec FilterSpec) FilterResult {
	out := customers

	if search := strings.ToLower(strings.TrimSpace(spec.Search)); search != "" {
		out = collection.Filter(out, func(c models.Customer) bool {
			return strings.Contains(strings.ToLower(c.Name), search) ||
				strings.Contains(c.Phone, search) ||
				strings.Contains(strings.ToLower(c.Email), search) ||
				strings.Contains(strings.ToLower(c.Address), search)
		})
	}

	if spec.Status != "" && spec.Status != "all" {
		want := models.ParsePaymentState(spec.Status)
		out = collection.Filter(out, func(c models.Customer) bool {
			return c.PaymentState() == want
		})
	}

	skipped := 0
	from, hasFrom := models.ParseDay(spec.From)
	to, hasTo := models.ParseDay(spec.To)
	if hasFrom || hasTo {
		out = collection.Filter(out, func(c models.Customer) bool {
			match, unparseable := dateInRange(c.Order, spec.DateField, from, hasFrom, to, hasTo)
			if !match && unparseable {
				skipped++
			}
			return match
		})
	}

	return FilterResult{Customers: out, Skipped: skipped}
}

// dateInRange checks the record's relevant date(s) against the inclusive
// bounds. Mode "all" matches when either date is in range. The second
// return reports that a present date failed to parse.
func dateInRange(o models.Order, mode string, from time.Time, hasFrom bool, to time.Time, hasTo bool) (match, unparseable bool) {
	var fields []string
	switch mode {
	case DateFieldOrder:
		fields = []string{o.OrderDate}
	case DateFieldCollection:
		fields = []string{o.CollectionDate}
	default: // "all" and unknown modes consider both dates
		fields = []string{o.OrderDate, o.CollectionDate}
	}

	for _, raw := range fields {
		if raw == "" {
			continue
		}
		day, ok := models.ParseDay(raw)
		if !ok {
			unparseable = true
			continue
		}
		if hasFrom && day.Before(from) {
			continue
		}
		if hasTo && day.After(to) {
			continue
		}
		match = true
	}
	return match, unparseable
}
