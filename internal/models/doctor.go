package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultFees    = 500
	DefaultAddress = "MedConnect Medical Center, New Delhi"
	DefaultImage   = "/images/doctor.jpg"
)

type Doctor struct {
	ID             primitive.ObjectID `json:"_id"`
	User           primitive.ObjectID `json:"user"`
	Name           string             `json:"name"`
	Specialization string             `json:"specialization"`
	Experience     int                `json:"experience"`
	Fees           float64            `json:"fees"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Bio            string             `json:"bio"`
	Image          string             `json:"image"`
	Rating         float64            `json:"rating"`
	NumReviews     int                `json:"numReviews"`
	Timings        Schedule           `json:"timings"`
	AvailableDays  []string           `json:"availableDays"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// SetSchedule replaces the weekly schedule and recomputes AvailableDays.
func (d *Doctor) SetSchedule(s Schedule) {
	d.Timings = s
	d.AvailableDays = s.AvailableDays()
}

func (d *Doctor) Summary() *DoctorSummary {
	return &DoctorSummary{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		Fees:           d.Fees,
		Phone:          d.Phone,
	}
}

// DoctorFilter narrows a doctor listing.
type DoctorFilter struct {
	Specialization string
	Search         string
	Limit          int
}
