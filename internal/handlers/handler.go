package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/middleware"
	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.UserPublic, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd services.ProfileUpdate) (*services.AuthResult, error)
}

type DoctorService interface {
	List(ctx context.Context, f models.DoctorFilter) ([]*models.Doctor, error)
	Get(ctx context.Context, id string) (*models.Doctor, error)
	Create(ctx context.Context, requester *models.User, f services.DoctorFields) (*models.Doctor, error)
	Update(ctx context.Context, id string, requester *models.User, f services.DoctorFields) (*models.Doctor, error)
}

type AppointmentService interface {
	Create(ctx context.Context, patient *models.User, in services.BookingInput) (*models.Appointment, error)
	Get(ctx context.Context, id string, requester *models.User) (*models.AppointmentDetail, error)
	ListForPatient(ctx context.Context, patient *models.User) ([]*models.AppointmentDetail, error)
	ListForDoctor(ctx context.Context, doctorUser *models.User) ([]*models.AppointmentDetail, error)
	UpdateStatus(ctx context.Context, id string, requester *models.User, upd services.StatusUpdate) (*models.Appointment, error)
	Cancel(ctx context.Context, id string, requester *models.User) (*models.Appointment, error)
}

// Pinger reports whether the database is reachable.
type Pinger func(ctx context.Context) error

// Handler holds every dependency the HTTP layer needs. Route handlers are
// methods on it.
type Handler struct {
	Auth         AuthService
	Doctors      DoctorService
	Appointments AppointmentService
	Ping         Pinger
	Log          *logrus.Logger
	Production   bool

	validate *RequestValidator
}

func NewHandler(auth AuthService, doctors DoctorService, appointments AppointmentService, ping Pinger, log *logrus.Logger, production bool) *Handler {
	return &Handler{
		Auth:         auth,
		Doctors:      doctors,
		Appointments: appointments,
		Ping:         ping,
		Log:          log,
		Production:   production,
		validate:     NewRequestValidator(),
	}
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

func failValidation(c *gin.Context, message string, fields map[string]string) {
	if message == "" {
		message = "Validation failed"
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Success: false, Message: message, Errors: fields})
}

// respondError maps a service error onto a status code and envelope.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var authErr *utils.AuthError

	switch {
	case errors.As(err, &verr):
		failValidation(c, verr.Error(), verr.Fields)
	case errors.Is(err, services.ErrDuplicateEmail):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateProfile):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.As(err, &authErr):
		fail(c, http.StatusUnauthorized, "Not authorized, token failed")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		fail(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		h.Log.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.ContextRequestID),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("unhandled error")
		if h.Production {
			fail(c, http.StatusInternalServerError, "Server error")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

// bind decodes the JSON body into req and runs its validate tags.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		failValidation(c, "Invalid request body", nil)
		return false
	}
	if err := h.validate.Validate(req); err != nil {
		failValidation(c, "", h.validate.FormatValidationErrors(err))
		return false
	}
	return true
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

// Health reports the service and database status.
func (h *Handler) Health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			h.Log.WithError(err).Warn("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, envelope{Success: false, Message: "database unavailable"})
			return
		}
	}
	ok(c, http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}

func (h *Handler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: "MedConnect API is running"})
}
