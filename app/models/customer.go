package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentState is the derived payment classification. Never stored; always
// recomputed from amounts so display stays consistent with the money fields.
type PaymentState string

const (
	PaymentPaid    PaymentState = "paid"
	PaymentPartial PaymentState = "partial"
	PaymentNotPaid PaymentState = "not_paid"
)

// ParsePaymentState maps stored or user-supplied payment labels, including
// legacy aliases, onto the canonical set. Unknown labels map to not_paid.
func ParsePaymentState(s string) PaymentState {
	switch s {
	case "paid":
		return PaymentPaid
	case "partial", "advance":
		return PaymentPartial
	default:
		return PaymentNotPaid
	}
}

// OrderStatus is the order lifecycle label.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderReady      OrderStatus = "ready"
	OrderCollected  OrderStatus = "collected"
)

// ParseOrderStatus maps stored labels, including legacy aliases, onto the
// canonical set. Unknown labels map to pending.
func ParseOrderStatus(s string) OrderStatus {
	switch s {
	case "in_progress", "in-progress":
		return OrderInProgress
	case "ready", "completed":
		return OrderReady
	case "collected", "delivered":
		return OrderCollected
	default:
		return OrderPending
	}
}

// Urgency classifies how soon a collection date needs attention.
type Urgency string

const (
	UrgencyOverdue     Urgency = "overdue"
	UrgencyDueToday    Urgency = "due_today"
	UrgencyDueTomorrow Urgency = "due_tomorrow"
	UrgencyUpcoming    Urgency = "upcoming"
	UrgencyNone        Urgency = "none"
)

// DefaultLookaheadDays bounds the "upcoming" urgency window.
const DefaultLookaheadDays = 7

// Order holds the order fields embedded in every customer record: one
// garment order per customer record.
type Order struct {
	OrderDate      string      `bson:"orderDate,omitempty" json:"orderDate,omitempty"`
	CollectionDate string      `bson:"collectionDate,omitempty" json:"collectionDate,omitempty"`
	Amount         float64     `bson:"amount" json:"amount"`
	AdvanceAmount  float64     `bson:"advanceAmount" json:"advanceAmount"`
	PaymentStatus  string      `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	Status         OrderStatus `bson:"status" json:"status"`
}

// Customer is a tailor's customer record with its embedded order. Every
// repository query filters by TailorID; a customer is never visible to any
// other account.
type Customer struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TailorID primitive.ObjectID `bson:"tailorId" json:"tailorId"`
	Name     string             `bson:"name" json:"name"`
	Phone    string             `bson:"phone" json:"phone"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	Address  string             `bson:"address,omitempty" json:"address,omitempty"`

	Order `bson:",inline"`

	Measurements     map[string]float64 `bson:"measurements,omitempty" json:"measurements,omitempty"`
	MeasurementNotes string             `bson:"measurementNotes,omitempty" json:"measurementNotes,omitempty"`
	PhotoKeys        []string           `bson:"photoKeys,omitempty" json:"photoKeys,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// dayLayouts are the date formats accepted on customer records, tried in
// order. Records whose dates match none of these are skipped, not rejected.
var dayLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDay parses a stored date string and normalizes it to midnight UTC,
// so all urgency and range comparisons work on whole calendar days.
func ParseDay(s string) (time.Time, bool) {
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return Midnight(t), true
	}
	return time.Time{}, false
}

// Midnight truncates t to 00:00 UTC of its calendar day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// PaymentState derives the payment classification from the amounts.
// Overpayment (advance above total) clamps to paid; it is a data-entry
// artifact, not a fault.
func (o Order) PaymentState() PaymentState {
	switch {
	case o.AdvanceAmount > 0 && o.AdvanceAmount >= o.Amount:
		return PaymentPaid
	case o.AdvanceAmount > 0:
		return PaymentPartial
	default:
		return PaymentNotPaid
	}
}

// Urgency derives the collection urgency relative to now using the default
// 7-day upcoming window.
func (o Order) Urgency(now time.Time) Urgency {
	return o.UrgencyWithin(now, DefaultLookaheadDays)
}

// UrgencyWithin derives the collection urgency with an explicit upcoming
// window. Collected orders need no action and always map to none, as do
// orders whose collection date is missing or unparseable.
func (o Order) UrgencyWithin(now time.Time, lookaheadDays int) Urgency {
	if ParseOrderStatus(string(o.Status)) == OrderCollected {
		return UrgencyNone
	}

	due, ok := ParseDay(o.CollectionDate)
	if !ok {
		return UrgencyNone
	}

	days := int(due.Sub(Midnight(now)).Hours() / 24)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days == 0:
		return UrgencyDueToday
	case days == 1:
		return UrgencyDueTomorrow
	case days <= lookaheadDays:
		return UrgencyUpcoming
	default:
		return UrgencyNone
	}
}

// HasParseableDates reports whether the record's present date fields all
// parse. Used by the filter engine to count skipped records.
func (o Order) HasParseableDates() bool {
	if o.OrderDate != "" {
		if _, ok := ParseDay(o.OrderDate); !ok {
			return false
		}
	}
	if o.CollectionDate != "" {
		if _, ok := ParseDay(o.CollectionDate); !ok {
			return false
		}
	}
	return true
}
