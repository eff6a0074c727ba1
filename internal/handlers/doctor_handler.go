package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/services"
)

// doctorRequest accepts timings in any shape ScheduleInput understands.
type doctorRequest struct {
	User           string               `json:"user"`
	Name           *string              `json:"name" validate:"omitempty,max=100"`
	Specialization *string              `json:"specialization" validate:"omitempty,max=100"`
	Experience     *int                 `json:"experience" validate:"omitempty,gte=0"`
	Fees           *float64             `json:"fees" validate:"omitempty,gte=0"`
	Phone          *string              `json:"phone" validate:"omitempty,max=20"`
	Address        *string              `json:"address"`
	Bio            *string              `json:"bio" validate:"omitempty,max=2000"`
	Image          *string              `json:"image"`
	Rating         *float64             `json:"rating" validate:"omitempty,gte=0,lte=5"`
	NumReviews     *int                 `json:"numReviews" validate:"omitempty,gte=0"`
	Timings        models.ScheduleInput `json:"timings"`
	AvailableDays  []string             `json:"availableDays" validate:"omitempty,dive,weekday"`
}

// scheduleProblems reports a timings value that is neither null nor a list.
func (r *doctorRequest) scheduleProblems() map[string]string {
	if r.Timings.Malformed() {
		return map[string]string{"timings": "timings must be a list of day entries or times"}
	}
	return nil
}

func (r *doctorRequest) fields() services.DoctorFields {
	return services.DoctorFields{
		User:           r.User,
		Name:           r.Name,
		Specialization: r.Specialization,
		Experience:     r.Experience,
		Fees:           r.Fees,
		Phone:          r.Phone,
		Address:        r.Address,
		Bio:            r.Bio,
		Image:          r.Image,
		Rating:         r.Rating,
		NumReviews:     r.NumReviews,
		Timings:        r.Timings,
		AvailableDays:  r.AvailableDays,
	}
}

// ListDoctors handles GET /api/doctors?specialization=&search=&limit=
func (h *Handler) ListDoctors(c *gin.Context) {
	filter := models.DoctorFilter{
		Specialization: c.Query("specialization"),
		Search:         c.Query("search"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			failValidation(c, "limit must be a positive integer", map[string]string{"limit": "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	doctors, err := h.Doctors.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.Doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, doctor)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req doctorRequest
	if !h.bind(c, &req) {
		return
	}
	if problems := req.scheduleProblems(); problems != nil {
		failValidation(c, "", problems)
		return
	}

	doctor, err := h.Doctors.Create(c.Request.Context(), currentUser(c), req.fields())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, doctor)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req doctorRequest
	if !h.bind(c, &req) {
		return
	}
	if problems := req.scheduleProblems(); problems != nil {
		failValidation(c, "", problems)
		return
	}

	doctor, err := h.Doctors.Update(c.Request.Context(), c.Param("id"), currentUser(c), req.fields())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, doctor)
}
