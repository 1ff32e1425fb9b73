package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
)

func reminderFixtures() []models.Customer {
	return []models.Customer{
		customer("Overdue Olive", "9111111111", models.Order{
			CollectionDate: day(-3), Status: models.OrderReady,
		}),
		customer("Today Tara", "9222222222", models.Order{
			CollectionDate: day(0), Status: models.OrderInProgress,
		}),
		customer("Tomorrow Tom", "9333333333", models.Order{
			CollectionDate: day(1), Status: models.OrderPending,
		}),
		customer("Upcoming Uma", "9444444444", models.Order{
			CollectionDate: day(5), Status: models.OrderPending,
		}),
		customer("Faraway Fred", "9555555555", models.Order{
			CollectionDate: day(20), Status: models.OrderPending,
		}),
		customer("Collected Cara", "9666666666", models.Order{
			CollectionDate: day(-10), Status: models.OrderCollected,
		}),
	}
}

func TestGetRemindersBuckets(t *testing.T) {
	buckets := services.GetReminders(reminderFixtures(), now, nil, models.DefaultLookaheadDays)

	assert.Len(t, buckets.Overdue, 1)
	assert.Len(t, buckets.DueToday, 1)
	assert.Len(t, buckets.DueTomorrow, 1)
	assert.Len(t, buckets.Upcoming, 1)

	assert.Equal(t, "Overdue Olive", buckets.Overdue[0].Customer.Name)
	assert.Equal(t, "Today Tara", buckets.DueToday[0].Customer.Name)
	assert.Equal(t, "Tomorrow Tom", buckets.DueTomorrow[0].Customer.Name)
	assert.Equal(t, "Upcoming Uma", buckets.Upcoming[0].Customer.Name)
}

func TestGetRemindersBucketsDisjoint(t *testing.T) {
	buckets := services.GetReminders(reminderFixtures(), now, nil, models.DefaultLookaheadDays)

	seen := map[string]int{}
	for _, group := range [][]services.ReminderEntry{
		buckets.Overdue, buckets.DueToday, buckets.DueTomorrow, buckets.Upcoming,
	} {
		for _, e := range group {
			seen[e.Customer.ID.Hex()]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "customer %s appears in more than one bucket", id)
	}
}

func TestGetRemindersExcludesCollected(t *testing.T) {
	buckets := services.GetReminders(reminderFixtures(), now, nil, models.DefaultLookaheadDays)
	for _, e := range buckets.Overdue {
		assert.NotEqual(t, "Collected Cara", e.Customer.Name)
	}
	assert.Equal(t, 4, buckets.Total())
}

func TestGetRemindersDismissal(t *testing.T) {
	in := reminderFixtures()
	dismissed := services.NewDismissalSet()
	dismissed.Dismiss(in[0].ID.Hex()) // Overdue Olive

	buckets := services.GetReminders(in, now, dismissed, models.DefaultLookaheadDays)
	assert.Empty(t, buckets.Overdue)
	assert.Equal(t, 3, buckets.Total())

	// Dismissing twice changes nothing.
	dismissed.Dismiss(in[0].ID.Hex())
	again := services.GetReminders(in, now, dismissed, models.DefaultLookaheadDays)
	assert.Equal(t, buckets.Total(), again.Total())
	assert.Equal(t, 1, dismissed.Len())
}

func TestDismissalDoesNotAffectFilter(t *testing.T) {
	in := reminderFixtures()
	dismissed := services.NewDismissalSet()
	dismissed.Dismiss(in[0].ID.Hex())

	result := services.FilterCustomers(in, services.FilterSpec{})
	assert.Len(t, result.Customers, len(in))
}

func TestGetRemindersSkipsUnparseableDates(t *testing.T) {
	in := append(reminderFixtures(), customer("Broken Bella", "9777777777", models.Order{
		CollectionDate: "whenever", Status: models.OrderPending,
	}))

	buckets := services.GetReminders(in, now, nil, models.DefaultLookaheadDays)
	assert.Equal(t, 1, buckets.Skipped)
	assert.Equal(t, 4, buckets.Total())
}

func TestGetRemindersWhatsAppLinks(t *testing.T) {
	buckets := services.GetReminders(reminderFixtures(), now, nil, models.DefaultLookaheadDays)
	assert.Contains(t, buckets.Overdue[0].WhatsAppLink, "https://wa.me/919111111111")
	assert.Contains(t, buckets.Overdue[0].WhatsAppLink, "text=")
}

func TestDismissalRegistryPerTailor(t *testing.T) {
	reg := services.NewDismissalRegistry()
	id := primitive.NewObjectID().Hex()

	reg.For("tailor-a").Dismiss(id)
	assert.True(t, reg.For("tailor-a").Contains(id))
	assert.False(t, reg.For("tailor-b").Contains(id))
	assert.Same(t, reg.For("tailor-a"), reg.For("tailor-a"))
}
