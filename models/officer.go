package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Officer roles. Admins may rewrite record fields of an issue, officers only
// its status and priority.
const (
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

type Officer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidRole reports whether role grants access to government routes.
func ValidRole(role string) bool {
	return role == RoleOfficer || role == RoleAdmin
}

func (o *Officer) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	o.Password = string(hashed)
	return nil
}

func (o *Officer) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(candidate))
	return err == nil
}
