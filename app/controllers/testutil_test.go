package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
)

// ─── In-memory stores ─────────────────────────────────────────────────────────

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by ID hex
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]models.User{}}
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	s.users[user.ID.Hex()] = *user
	return nil
}

func (s *memUserStore) UpdateStatus(_ context.Context, id, status string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != models.RoleTailor {
		return models.User{}, repositories.ErrNotFound
	}
	u.Status = status
	s.users[id] = u
	return u, nil
}

func (s *memUserStore) Tailors(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Role == models.RoleTailor {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memCustomerStore struct {
	mu        sync.Mutex
	customers map[string]models.Customer // keyed by ID hex
	owners    map[string]string          // customer ID hex -> tailor ID
}

func newMemCustomerStore() *memCustomerStore {
	return &memCustomerStore{
		customers: map[string]models.Customer{},
		owners:    map[string]string{},
	}
}

func (s *memCustomerStore) ListByTailor(_ context.Context, tailorID string) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Customer
	for id, c := range s.customers {
		if s.owners[id] == tailorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memCustomerStore) FindByID(_ context.Context, tailorID, id string) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok || s.owners[id] != tailorID {
		return models.Customer{}, repositories.ErrNotFound
	}
	return c, nil
}

func (s *memCustomerStore) Create(_ context.Context, tailorID string, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer.ID = primitive.NewObjectID()
	s.customers[customer.ID.Hex()] = *customer
	s.owners[customer.ID.Hex()] = tailorID
	return nil
}

func (s *memCustomerStore) Update(_ context.Context, tailorID, id string, customer *models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.customers[id]
	if !ok || s.owners[id] != tailorID {
		return models.Customer{}, repositories.ErrNotFound
	}
	customer.ID = existing.ID
	customer.PhotoKeys = existing.PhotoKeys
	s.customers[id] = *customer
	return *customer, nil
}

func (s *memCustomerStore) Delete(_ context.Context, tailorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok || s.owners[id] != tailorID {
		return repositories.ErrNotFound
	}
	delete(s.customers, id)
	delete(s.owners, id)
	return nil
}

func (s *memCustomerStore) AddPhotoKey(_ context.Context, tailorID, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok || s.owners[id] != tailorID {
		return repositories.ErrNotFound
	}
	c.PhotoKeys = append(c.PhotoKeys, key)
	s.customers[id] = c
	return nil
}

func (s *memCustomerStore) TailorIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, tailorID := range s.owners {
		if !seen[tailorID] {
			seen[tailorID] = true
			out = append(out, tailorID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *memCustomerStore) CountAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.customers)), nil
}

// ─── Request helpers ──────────────────────────────────────────────────────────

type envelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  map[string]string      `json:"errors"`
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authed attaches validated claims the way the auth middleware would.
func authed(req *http.Request, userID, role, status string) *http.Request {
	claims := &auth.Claims{UserID: userID, Role: role, Status: status}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func do(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

// urlParams primes the chi route context so chi.URLParam resolves in
// handlers invoked without a router.
func urlParams(req *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
