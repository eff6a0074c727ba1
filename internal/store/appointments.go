package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

type AppointmentStore struct {
	coll *mongo.Collection
}

func NewAppointmentStore(db *mongo.Database) *AppointmentStore {
	return &AppointmentStore{coll: db.Collection(AppointmentsCollection)}
}

func (s *AppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, a)
	return translate(err)
}

func (s *AppointmentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// ListByPatient returns the patient's appointments, newest booking first.
func (s *AppointmentStore) ListByPatient(ctx context.Context, userID primitive.ObjectID) ([]*models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, bson.M{"user": userID}, opts)
}

// ListByDoctor returns the doctor's appointments, earliest date first.
func (s *AppointmentStore) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}, {Key: "createdAt", Value: 1}})
	return s.find(ctx, bson.M{"doctor": doctorID}, opts)
}

// ListByStatusBetween returns appointments in a status whose date falls in [from, to).
func (s *AppointmentStore) ListByStatusBetween(ctx context.Context, status models.Status, from, to time.Time) ([]*models.Appointment, error) {
	filter := bson.M{
		"status":          status,
		"appointmentDate": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}})
	return s.find(ctx, filter, opts)
}

func (s *AppointmentStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Appointment, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	appointments := make([]*models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Update writes the mutable fields of a. Concurrent updates are last-write-wins.
func (s *AppointmentStore) Update(ctx context.Context, a *models.Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":    a.Status,
		"notes":     a.Notes,
		"isPaid":    a.IsPaid,
		"updatedAt": a.UpdatedAt,
	}}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": a.ID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
