package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/tailorcraft/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Gender   string `json:"gender" validate:"required,in=male,female"`
}

type orderInput struct {
	Amount        float64 `json:"amount" validate:"required,gte=0"`
	AdvanceAmount float64 `json:"advanceAmount" validate:"nullable,gte=0"`
	OrderDate     string  `json:"orderDate" validate:"required,date"`
	Notes         string  `json:"notes" validate:"nullable,max=500"`
}

func TestStructValid(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Name:     "Meena Tailors",
		Email:    "meena@example.com",
		Password: "secret123",
		Gender:   "female",
	})
	assert.Empty(t, errs)
}

func TestStructRequired(t *testing.T) {
	errs := validate.Struct(&registerInput{Gender: "female"})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "gender")
}

func TestStructEmail(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Name:     "Meena",
		Email:    "not-an-email",
		Password: "secret123",
		Gender:   "female",
	})
	assert.Contains(t, errs, "email")
}

func TestStructIn(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Name:     "Meena",
		Email:    "meena@example.com",
		Password: "secret123",
		Gender:   "other",
	})
	assert.Contains(t, errs, "gender")
}

func TestStructMinLength(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Name:     "M",
		Email:    "meena@example.com",
		Password: "secret123",
		Gender:   "female",
	})
	assert.Contains(t, errs, "name")
}

func TestStructNumericBounds(t *testing.T) {
	errs := validate.Struct(&orderInput{Amount: -10, OrderDate: "2026-08-01"})
	assert.Contains(t, errs, "amount")

	errs = validate.Struct(&orderInput{Amount: 1500, OrderDate: "2026-08-01"})
	assert.Empty(t, errs)
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	// AdvanceAmount and Notes are zero; nullable means no error.
	errs := validate.Struct(&orderInput{Amount: 100, OrderDate: "2026-08-01"})
	assert.Empty(t, errs)
}

func TestStructDate(t *testing.T) {
	errs := validate.Struct(&orderInput{Amount: 100, OrderDate: "31-31-2026"})
	assert.Contains(t, errs, "orderDate")

	errs = validate.Struct(&orderInput{Amount: 100, OrderDate: "2026-08-31T10:00:00Z"})
	assert.Empty(t, errs)
}
