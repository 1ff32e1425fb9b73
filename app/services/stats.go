package services

import (
	"time"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/pkg/collection"
)

// Stats is the dashboard summary block computed over a tailor's full
// customer set.
type Stats struct {
	TotalCustomers  int     `json:"totalCustomers"`
	PendingOrders   int     `json:"pendingOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	AdvancePayments float64 `json:"advancePayments"`
}

// ComputeStats derives the summary. Pending counts orders whose collection
// day is still ahead and which are not fully paid. Revenue sums fully paid
// orders; advance payments sum the advances on partially paid ones.
func ComputeStats(customers []models.Customer, now time.Time) Stats {
	today := models.Midnight(now)

	pending := collection.Filter(customers, func(c models.Customer) bool {
		due, ok := models.ParseDay(c.CollectionDate)
		return ok && due.After(today) && c.PaymentState() != models.PaymentPaid
	})

	paid := collection.Filter(customers, func(c models.Customer) bool {
		return c.PaymentState() == models.PaymentPaid
	})
	partial := collection.Filter(customers, func(c models.Customer) bool {
		return c.PaymentState() == models.PaymentPartial
	})

	return Stats{
		TotalCustomers:  len(customers),
		PendingOrders:   len(pending),
		TotalRevenue:    collection.Sum(paid, func(c models.Customer) float64 { return c.Amount }),
		AdvancePayments: collection.Sum(partial, func(c models.Customer) float64 { return c.AdvanceAmount }),
	}
}
