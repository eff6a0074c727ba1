package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	IsDoctor    bool               `bson:"isDoctor" json:"isDoctor"`
	IsAdmin     bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Role derives the user's role from its flags. Admin wins over doctor.
func (u *User) Role() Role {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsDoctor:
		return RoleDoctor
	default:
		return RolePatient
	}
}

// UserPublic is the user as returned over the API.
type UserPublic struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phoneNumber"`
	IsDoctor    bool               `json:"isDoctor"`
	IsAdmin     bool               `json:"isAdmin"`
	Role        Role               `json:"role"`
}

func (u *User) Public() UserPublic {
	return UserPublic{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		IsDoctor:    u.IsDoctor,
		IsAdmin:     u.IsAdmin,
		Role:        u.Role(),
	}
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber}
}
