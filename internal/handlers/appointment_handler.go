package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/services"
)

// Accepted appointmentDate layouts; a bare date is taken as UTC midnight.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

type bookingRequest struct {
	Doctor          string `json:"doctor" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	TimeSlot        string `json:"timeSlot" validate:"required,max=50"`
	Reason          string `json:"reason" validate:"required,max=1000"`
	PaymentMethod   string `json:"paymentMethod" validate:"omitempty,oneof=card phonepe googlepay"`
	IsPaid          bool   `json:"isPaid"`
}

type statusRequest struct {
	Status string  `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CreateAppointment books an appointment for the authenticated patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req bookingRequest
	if !h.bind(c, &req) {
		return
	}
	date, valid := parseDate(req.AppointmentDate)
	if !valid {
		msg := "appointmentDate must be YYYY-MM-DD or RFC3339"
		failValidation(c, msg, map[string]string{"appointmentDate": msg})
		return
	}

	apt, err := h.Appointments.Create(c.Request.Context(), currentUser(c), services.BookingInput{
		Doctor:          req.Doctor,
		AppointmentDate: date,
		TimeSlot:        req.TimeSlot,
		Reason:          req.Reason,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		IsPaid:          req.IsPaid,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, apt)
}

// GetMyAppointments lists the caller's bookings, newest first.
func (h *Handler) GetMyAppointments(c *gin.Context) {
	list, err := h.Appointments.ListForPatient(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

// GetDoctorAppointments lists bookings against the caller's doctor profile.
func (h *Handler) GetDoctorAppointments(c *gin.Context) {
	list, err := h.Appointments.ListForDoctor(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.Appointments.Get(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, apt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req statusRequest
	if !h.bind(c, &req) {
		return
	}

	apt, err := h.Appointments.UpdateStatus(c.Request.Context(), c.Param("id"), currentUser(c), services.StatusUpdate{
		Status: models.Status(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	apt, err := h.Appointments.Cancel(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, apt)
}
