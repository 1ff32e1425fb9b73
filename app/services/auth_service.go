package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures do not leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPendingApproval is returned when a tailor logs in before an admin
	// has approved the account.
	ErrPendingApproval = errors.New("account pending approval")
)

// UserStore is the user persistence surface AuthService depends on.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, id, status string) (models.User, error)
	Tailors(ctx context.Context) ([]models.User, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"nullable,min=7,max=20"`
	Password string `json:"password" validate:"required,min=6"`
	Gender   string `json:"gender" validate:"required,in=male,female"`
}

// Register creates a pending tailor account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:    strings.TrimSpace(in.Phone),
		Password: hash,
		Role:     models.RoleTailor,
		Status:   models.StatusPending,
		Gender:   in.Gender,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token. Tailors that are
// not yet approved are rejected before a token is issued.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	if user.Role == models.RoleTailor && user.Status != models.StatusApproved {
		return "", models.User{}, ErrPendingApproval
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role, user.Status)
	if err != nil {
		return "", models.User{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, user, nil
}

// Verify returns the account behind a validated token's user ID.
func (s *AuthService) Verify(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Tailors lists every tailor account for the admin dashboard.
func (s *AuthService) Tailors(ctx context.Context) ([]models.User, error) {
	return s.users.Tailors(ctx)
}

// SetTailorStatus approves or rejects a tailor account.
func (s *AuthService) SetTailorStatus(ctx context.Context, id, status string) (models.User, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return models.User{}, fmt.Errorf("auth: invalid status %q", status)
	}
	return s.users.UpdateStatus(ctx, id, status)
}
