package client

import "time"

type User struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	IsDoctor    bool   `json:"isDoctor"`
	IsAdmin     bool   `json:"isAdmin"`
	Role        string `json:"role"`
}

type AuthResponse struct {
	User
	Token string `json:"token"`
}

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	IsDoctor    bool   `json:"isDoctor,omitempty"`
}

type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

type ScheduleEntry struct {
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type Doctor struct {
	ID             string          `json:"_id"`
	User           string          `json:"user"`
	Name           string          `json:"name"`
	Specialization string          `json:"specialization"`
	Experience     int             `json:"experience"`
	Fees           float64         `json:"fees"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Bio            string          `json:"bio"`
	Image          string          `json:"image"`
	Rating         float64         `json:"rating"`
	NumReviews     int             `json:"numReviews"`
	Timings        []ScheduleEntry `json:"timings"`
	AvailableDays  []string        `json:"availableDays"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DoctorInput creates or updates a doctor profile. Nil fields are omitted.
type DoctorInput struct {
	User           string          `json:"user,omitempty"`
	Name           *string         `json:"name,omitempty"`
	Specialization *string         `json:"specialization,omitempty"`
	Experience     *int            `json:"experience,omitempty"`
	Fees           *float64        `json:"fees,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Bio            *string         `json:"bio,omitempty"`
	Image          *string         `json:"image,omitempty"`
	Rating         *float64        `json:"rating,omitempty"`
	NumReviews     *int            `json:"numReviews,omitempty"`
	Timings        []ScheduleEntry `json:"timings,omitempty"`
	AvailableDays  []string        `json:"availableDays,omitempty"`
}

type DoctorQuery struct {
	Specialization string
	Search         string
	Limit          int
}

type DoctorSummary struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Fees           float64 `json:"fees"`
	Phone          string  `json:"phone"`
}

type UserSummary struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type Appointment struct {
	ID              string         `json:"_id"`
	Doctor          string         `json:"doctor"`
	User            string         `json:"user"`
	AppointmentDate time.Time      `json:"appointmentDate"`
	TimeSlot        string         `json:"timeSlot"`
	Reason          string         `json:"reason"`
	Status          string         `json:"status"`
	Notes           string         `json:"notes,omitempty"`
	PaymentMethod   string         `json:"paymentMethod"`
	IsPaid          bool           `json:"isPaid"`
	Fees            float64        `json:"fees"`
	DoctorInfo      *DoctorSummary `json:"doctorInfo,omitempty"`
	PatientInfo     *UserSummary   `json:"patientInfo,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type BookingRequest struct {
	Doctor          string `json:"doctor"`
	AppointmentDate string `json:"appointmentDate"`
	TimeSlot        string `json:"timeSlot"`
	Reason          string `json:"reason"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	IsPaid          bool   `json:"isPaid"`
}

type StatusRequest struct {
	Status string  `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}
