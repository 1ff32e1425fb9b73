// Package models defines the persisted document types and the pure
// derivation logic (payment state, collection urgency) computed on read.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles.
const (
	RoleAdmin  = "admin"
	RoleTailor = "tailor"
)

// Account statuses. New tailors start pending and cannot use the tailor API
// until an admin approves them.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User is a tailor or admin account stored in the users collection.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"`
	Gender    string             `bson:"gender,omitempty" json:"gender,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsApprovedTailor reports whether the account may use the tailor API.
func (u User) IsApprovedTailor() bool {
	return u.Role == RoleTailor && u.Status == StatusApproved
}

// MeasurementFields returns the body-measurement field names presented for
// a tailor's customers. The set depends on the tailor's speciality gender.
func MeasurementFields(gender string) []string {
	if gender == "female" {
		return []string{
			"length", "shoulder", "sleeve", "upperBust", "bust",
			"underBust", "waist", "hip", "neck", "armhole",
		}
	}
	return []string{
		"length", "shoulder", "sleeve", "chest", "waist",
		"hip", "neck", "bicep", "wrist",
	}
}
