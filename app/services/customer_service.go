package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/pkg/cache"
	"github.com/shashiranjanraj/tailorcraft/pkg/metrics"
)

const customerCacheTTL = time.Minute

// CustomerStore is the customer persistence surface CustomerService
// depends on.
type CustomerStore interface {
	ListByTailor(ctx context.Context, tailorID string) ([]models.Customer, error)
	FindByID(ctx context.Context, tailorID, id string) (models.Customer, error)
	Create(ctx context.Context, tailorID string, customer *models.Customer) error
	Update(ctx context.Context, tailorID, id string, customer *models.Customer) (models.Customer, error)
	Delete(ctx context.Context, tailorID, id string) error
	AddPhotoKey(ctx context.Context, tailorID, id, key string) error
	TailorIDs(ctx context.Context) ([]string, error)
	CountAll(ctx context.Context) (int64, error)
}

// CustomerService wraps the repository with the pure engines, a short-lived
// Redis snapshot cache, and per-tailor reminder dismissals.
type CustomerService struct {
	customers  CustomerStore
	dismissals *DismissalRegistry
	lookahead  int
}

func NewCustomerService(customers CustomerStore, lookaheadDays int) *CustomerService {
	if lookaheadDays < 1 {
		lookaheadDays = models.DefaultLookaheadDays
	}
	return &CustomerService{
		customers:  customers,
		dismissals: NewDismissalRegistry(),
		lookahead:  lookaheadDays,
	}
}

func cacheKey(tailorID string) string { return "customers:" + tailorID }

// snapshot loads the tailor's full customer list, via Redis when warm.
func (s *CustomerService) snapshot(ctx context.Context, tailorID string) ([]models.Customer, error) {
	var customers []models.Customer
	if cache.Get(cacheKey(tailorID), &customers) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return customers, nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()

	customers, err := s.customers.ListByTailor(ctx, tailorID)
	if err != nil {
		return nil, err
	}
	cache.Set(cacheKey(tailorID), customers, customerCacheTTL) //nolint:errcheck
	return customers, nil
}

func (s *CustomerService) invalidate(tailorID string) {
	cache.Forget(cacheKey(tailorID)) //nolint:errcheck
}

// List returns the filtered view of a tailor's customers plus the stats
// block computed over the unfiltered snapshot.
func (s *CustomerService) List(ctx context.Context, tailorID string, spec FilterSpec, now time.Time) (FilterResult, Stats, error) {
	customers, err := s.snapshot(ctx, tailorID)
	if err != nil {
		return FilterResult{}, Stats{}, err
	}
	return FilterCustomers(customers, spec), ComputeStats(customers, now), nil
}

// Get returns one customer owned by the tailor.
func (s *CustomerService) Get(ctx context.Context, tailorID, id string) (models.Customer, error) {
	return s.customers.FindByID(ctx, tailorID, id)
}

// Create persists a new customer and drops the tailor's cached snapshot.
func (s *CustomerService) Create(ctx context.Context, tailorID string, customer *models.Customer) error {
	customer.Status = models.ParseOrderStatus(string(customer.Status))
	if err := s.customers.Create(ctx, tailorID, customer); err != nil {
		return err
	}
	s.invalidate(tailorID)
	return nil
}

// Update replaces the customer's mutable fields.
func (s *CustomerService) Update(ctx context.Context, tailorID, id string, customer *models.Customer) (models.Customer, error) {
	customer.Status = models.ParseOrderStatus(string(customer.Status))
	updated, err := s.customers.Update(ctx, tailorID, id, customer)
	if err != nil {
		return models.Customer{}, err
	}
	s.invalidate(tailorID)
	return updated, nil
}

// Delete removes the customer.
func (s *CustomerService) Delete(ctx context.Context, tailorID, id string) error {
	if err := s.customers.Delete(ctx, tailorID, id); err != nil {
		return err
	}
	s.invalidate(tailorID)
	return nil
}

// AddPhotoKey records an uploaded garment photo's storage key.
func (s *CustomerService) AddPhotoKey(ctx context.Context, tailorID, id, key string) error {
	if err := s.customers.AddPhotoKey(ctx, tailorID, id, key); err != nil {
		return err
	}
	s.invalidate(tailorID)
	return nil
}

// Reminders computes the tailor's urgency buckets, honoring dismissals.
func (s *CustomerService) Reminders(ctx context.Context, tailorID string, now time.Time) (ReminderBuckets, error) {
	customers, err := s.snapshot(ctx, tailorID)
	if err != nil {
		return ReminderBuckets{}, err
	}
	return GetReminders(customers, now, s.dismissals.For(tailorID), s.lookahead), nil
}

// Dismiss hides the given order IDs from the tailor's future reminders for
// the lifetime of the process. Idempotent.
func (s *CustomerService) Dismiss(tailorID string, ids ...string) {
	s.dismissals.For(tailorID).Dismiss(ids...)
}

// Lookahead exposes the configured upcoming window (for the sweep).
func (s *CustomerService) Lookahead() int { return s.lookahead }

// Store exposes the underlying store (for the sweep and GraphQL resolvers).
func (s *CustomerService) Store() CustomerStore { return s.customers }
