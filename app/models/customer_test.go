package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/tailorcraft/app/models"
)

var now = time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)

func day(offset int) string {
	return now.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestPaymentState(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		advance float64
		want    models.PaymentState
	}{
		{"fully paid", 100, 100, models.PaymentPaid},
		{"overpaid clamps to paid", 100, 150, models.PaymentPaid},
		{"partial", 100, 40, models.PaymentPartial},
		{"nothing paid", 100, 0, models.PaymentNotPaid},
		{"zero amount zero advance", 0, 0, models.PaymentNotPaid},
		{"zero amount with advance", 0, 50, models.PaymentPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := models.Order{Amount: tt.amount, AdvanceAmount: tt.advance}
			assert.Equal(t, tt.want, o.PaymentState())
		})
	}
}

func TestPaymentStateTotal(t *testing.T) {
	// Every combination lands on exactly one canonical value.
	valid := map[models.PaymentState]bool{
		models.PaymentPaid: true, models.PaymentPartial: true, models.PaymentNotPaid: true,
	}
	for _, amount := range []float64{0, 50, 100} {
		for _, advance := range []float64{0, 25, 100, 200} {
			o := models.Order{Amount: amount, AdvanceAmount: advance}
			assert.True(t, valid[o.PaymentState()])
		}
	}
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		status     models.OrderStatus
		want       models.Urgency
	}{
		{"yesterday is overdue", day(-1), models.OrderInProgress, models.UrgencyOverdue},
		{"today", day(0), models.OrderPending, models.UrgencyDueToday},
		{"tomorrow", day(1), models.OrderPending, models.UrgencyDueTomorrow},
		{"within window", day(5), models.OrderReady, models.UrgencyUpcoming},
		{"window edge", day(7), models.OrderPending, models.UrgencyUpcoming},
		{"past window", day(8), models.OrderPending, models.UrgencyNone},
		{"collected never urgent", day(-10), models.OrderCollected, models.UrgencyNone},
		{"delivered alias never urgent", day(-10), models.OrderStatus("delivered"), models.UrgencyNone},
		{"missing date", "", models.OrderPending, models.UrgencyNone},
		{"unparseable date", "31-31-2026", models.OrderPending, models.UrgencyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := models.Order{CollectionDate: tt.collection, Status: tt.status}
			assert.Equal(t, tt.want, o.Urgency(now))
		})
	}
}

func TestUrgencyIgnoresTimeOfDay(t *testing.T) {
	// Same calendar day, late timestamp: still due today.
	o := models.Order{
		CollectionDate: now.Format("2006-01-02") + "T23:59:00Z",
		Status:         models.OrderPending,
	}
	assert.Equal(t, models.UrgencyDueToday, o.Urgency(now))

	// Early-morning "now" against an end-of-day due date on the day before.
	earlier := time.Date(2026, 8, 31, 0, 5, 0, 0, time.UTC)
	overdue := models.Order{CollectionDate: "2026-08-30T23:00:00Z", Status: models.OrderPending}
	assert.Equal(t, models.UrgencyOverdue, overdue.Urgency(earlier))
}

func TestUrgencyWithinCustomWindow(t *testing.T) {
	o := models.Order{CollectionDate: day(3), Status: models.OrderPending}
	assert.Equal(t, models.UrgencyUpcoming, o.UrgencyWithin(now, 3))
	assert.Equal(t, models.UrgencyNone, o.UrgencyWithin(now, 2))
}

func TestWorkedExampleJane(t *testing.T) {
	jane := models.Order{
		Amount:         100,
		AdvanceAmount:  40,
		CollectionDate: day(-1),
		Status:         models.OrderStatus("in-progress"),
	}
	assert.Equal(t, models.PaymentPartial, jane.PaymentState())
	assert.Equal(t, models.UrgencyOverdue, jane.Urgency(now))
}

func TestParseDay(t *testing.T) {
	d, ok := models.ParseDay("2026-08-31")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), d)

	d, ok = models.ParseDay("2026-08-31T18:45:00+05:30")
	assert.True(t, ok)
	// 18:45 IST is 13:15 UTC, still the 31st.
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), d)

	_, ok = models.ParseDay("next tuesday")
	assert.False(t, ok)
}

func TestParseAliases(t *testing.T) {
	assert.Equal(t, models.PaymentPartial, models.ParsePaymentState("advance"))
	assert.Equal(t, models.OrderReady, models.ParseOrderStatus("completed"))
	assert.Equal(t, models.OrderCollected, models.ParseOrderStatus("delivered"))
	assert.Equal(t, models.OrderInProgress, models.ParseOrderStatus("in-progress"))
	assert.Equal(t, models.OrderPending, models.ParseOrderStatus("garbage"))
}
