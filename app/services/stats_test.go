package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
)

func TestComputeStats(t *testing.T) {
	in := []models.Customer{
		// Fully paid, collected last week: counts toward revenue only.
		customer("Paid Priya", "91", models.Order{
			Amount: 1000, AdvanceAmount: 1000,
			CollectionDate: day(-7), Status: models.OrderCollected,
		}),
		// Partial with a future collection: pending + advance.
		customer("Partial Pia", "92", models.Order{
			Amount: 800, AdvanceAmount: 300,
			CollectionDate: day(3), Status: models.OrderInProgress,
		}),
		// Unpaid with a future collection: pending.
		customer("Unpaid Usha", "93", models.Order{
			Amount: 400, AdvanceAmount: 0,
			CollectionDate: day(5), Status: models.OrderPending,
		}),
		// Paid with a future collection: not pending (already settled).
		customer("Settled Sam", "94", models.Order{
			Amount: 600, AdvanceAmount: 700,
			CollectionDate: day(2), Status: models.OrderReady,
		}),
	}

	stats := services.ComputeStats(in, now)
	assert.Equal(t, 4, stats.TotalCustomers)
	assert.Equal(t, 2, stats.PendingOrders)
	assert.Equal(t, 1600.0, stats.TotalRevenue) // 1000 + 600
	assert.Equal(t, 300.0, stats.AdvancePayments)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := services.ComputeStats(nil, now)
	assert.Zero(t, stats.TotalCustomers)
	assert.Zero(t, stats.PendingOrders)
	assert.Zero(t, stats.TotalRevenue)
	assert.Zero(t, stats.AdvancePayments)
}

func TestComputeStatsIgnoresUnparseableDates(t *testing.T) {
	in := []models.Customer{
		customer("Broken", "95", models.Order{
			Amount: 100, AdvanceAmount: 10,
			CollectionDate: "tbd", Status: models.OrderPending,
		}),
	}
	stats := services.ComputeStats(in, now)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Zero(t, stats.PendingOrders)
	assert.Equal(t, 10.0, stats.AdvancePayments)
}
