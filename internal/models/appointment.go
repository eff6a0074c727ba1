package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine allows s -> next.
// Staying in the same non-terminal state is allowed so notes can be edited.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusPending || next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCancelled
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard      PaymentMethod = "card"
	PaymentPhonePe   PaymentMethod = "phonepe"
	PaymentGooglePay PaymentMethod = "googlepay"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCard, PaymentPhonePe, PaymentGooglePay:
		return true
	}
	return false
}

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Doctor          primitive.ObjectID `bson:"doctor" json:"doctor"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	TimeSlot        string             `bson:"timeSlot" json:"timeSlot"`
	Reason          string             `bson:"reason" json:"reason"`
	Status          Status             `bson:"status" json:"status"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	Fees            float64            `bson:"fees" json:"fees"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentDetail is an appointment with its doctor and patient resolved.
type AppointmentDetail struct {
	Appointment
	DoctorInfo  *DoctorSummary `json:"doctorInfo,omitempty"`
	PatientInfo *UserSummary   `json:"patientInfo,omitempty"`
}

type DoctorSummary struct {
	ID             primitive.ObjectID `json:"_id"`
	Name           string             `json:"name"`
	Specialization string             `json:"specialization"`
	Fees           float64            `json:"fees"`
	Phone          string             `json:"phone"`
}

type UserSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phoneNumber"`
}
