package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

// Repositories return store.ErrNotFound for missing records and
// store.ErrDuplicate for unique index violations.

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type DoctorRepository interface {
	Create(ctx context.Context, d *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	List(ctx context.Context, f models.DoctorFilter) ([]*models.Doctor, error)
	Update(ctx context.Context, d *models.Doctor) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	ListByPatient(ctx context.Context, userID primitive.ObjectID) ([]*models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*models.Appointment, error)
	ListByStatusBetween(ctx context.Context, status models.Status, from, to time.Time) ([]*models.Appointment, error)
	Update(ctx context.Context, a *models.Appointment) error
}

// DoctorCache holds doctor profiles keyed by id. Misses and cache failures
// both report ok=false.
type DoctorCache interface {
	Get(ctx context.Context, id string) (*models.Doctor, bool)
	Set(ctx context.Context, d *models.Doctor)
	Delete(ctx context.Context, id string)
}

// Notifier delivers best-effort messages about appointments.
type Notifier interface {
	AppointmentBooked(patient *models.User, doctor *models.Doctor, apt *models.Appointment)
	AppointmentStatusChanged(patient *models.User, doctor *models.Doctor, apt *models.Appointment)
	AppointmentReminder(patient *models.User, doctor *models.Doctor, apt *models.Appointment)
}

// parseRef parses an id supplied in a request body.
func parseRef(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, invalid(field, "invalid "+field+" id")
	}
	return id, nil
}

// parsePathID parses a resource id from a URL. A malformed id names no
// resource, so it reports notFound.
func parsePathID(raw string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}
