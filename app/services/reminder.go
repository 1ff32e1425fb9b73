package services

import (
	"sync"
	"time"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/pkg/whatsapp"
)

// ReminderEntry is one actionable order surfaced to a tailor, with a ready
// wa.me link for contacting the customer.
type ReminderEntry struct {
	Customer     models.Customer `json:"customer"`
	Urgency      models.Urgency  `json:"urgency"`
	WhatsAppLink string          `json:"whatsappLink,omitempty"`
}

// ReminderBuckets partitions actionable orders by urgency. The buckets are
// pairwise disjoint; a record appears in at most one.
type ReminderBuckets struct {
	Overdue     []ReminderEntry `json:"overdue"`
	DueToday    []ReminderEntry `json:"dueToday"`
	DueTomorrow []ReminderEntry `json:"dueTomorrow"`
	Upcoming    []ReminderEntry `json:"upcoming"`
	Skipped     int             `json:"skipped"`
}

// Counts returns the bucket sizes keyed by urgency label, for metrics and
// digest payloads.
func (b ReminderBuckets) Counts() map[string]int {
	return map[string]int{
		"overdue":  len(b.Overdue),
		"today":    len(b.DueToday),
		"tomorrow": len(b.DueTomorrow),
		"upcoming": len(b.Upcoming),
	}
}

// Total returns the number of actionable orders across all buckets.
func (b ReminderBuckets) Total() int {
	return len(b.Overdue) + len(b.DueToday) + len(b.DueTomorrow) + len(b.Upcoming)
}

// GetReminders partitions the snapshot into urgency buckets. Pure over its
// inputs: collected orders, dismissed IDs and records with no actionable
// urgency are excluded; records with an unparseable collection date are
// excluded and counted in Skipped. dismissed may be nil.
func GetReminders(customers []models.Customer, now time.Time, dismissed *DismissalSet, lookaheadDays int) ReminderBuckets {
	var buckets ReminderBuckets

	for _, c := range customers {
		if dismissed != nil && dismissed.Contains(c.ID.Hex()) {
			continue
		}
		if models.ParseOrderStatus(string(c.Status)) != models.OrderCollected &&
			c.CollectionDate != "" {
			if _, ok := models.ParseDay(c.CollectionDate); !ok {
				buckets.Skipped++
				continue
			}
		}

		urgency := c.UrgencyWithin(now, lookaheadDays)
		entry := ReminderEntry{
			Customer:     c,
			Urgency:      urgency,
			WhatsAppLink: whatsapp.Link(c.Phone, reminderMessage(c, urgency)),
		}

		switch entry.Urgency {
		case models.UrgencyOverdue:
			buckets.Overdue = append(buckets.Overdue, entry)
		case models.UrgencyDueToday:
			buckets.DueToday = append(buckets.DueToday, entry)
		case models.UrgencyDueTomorrow:
			buckets.DueTomorrow = append(buckets.DueTomorrow, entry)
		case models.UrgencyUpcoming:
			buckets.Upcoming = append(buckets.Upcoming, entry)
		}
	}

	return buckets
}

func reminderMessage(c models.Customer, u models.Urgency) string {
	switch u {
	case models.UrgencyOverdue:
		return "Hello " + c.Name + ", your garment is ready and waiting for collection. Please pick it up at your convenience."
	case models.UrgencyDueToday:
		return "Hello " + c.Name + ", a reminder that your garment is due for collection today."
	case models.UrgencyDueTomorrow:
		return "Hello " + c.Name + ", your garment will be ready for collection tomorrow."
	default:
		return "Hello " + c.Name + ", your garment will be ready for collection on " + c.CollectionDate + "."
	}
}

// ─── Dismissals ──────────────────────────────────────────────────────────────

// DismissalSet holds the order IDs a tailor has dismissed for the lifetime
// of the server process. Dismissing is idempotent and never affects the
// filter engine.
type DismissalSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewDismissalSet() *DismissalSet {
	return &DismissalSet{ids: make(map[string]struct{})}
}

// Dismiss adds the given IDs. Repeated dismissals are no-ops.
func (s *DismissalSet) Dismiss(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
}

// Contains reports whether id was dismissed.
func (s *DismissalSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of dismissed IDs.
func (s *DismissalSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// DismissalRegistry hands out one DismissalSet per tailor.
type DismissalRegistry struct {
	mu   sync.Mutex
	sets map[string]*DismissalSet
}

func NewDismissalRegistry() *DismissalRegistry {
	return &DismissalRegistry{sets: make(map[string]*DismissalSet)}
}

// For returns (creating if needed) the tailor's dismissal set.
func (r *DismissalRegistry) For(tailorID string) *DismissalSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[tailorID]
	if !ok {
		set = NewDismissalSet()
		r.sets[tailorID] = set
	}
	return set
}
