package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

// doctorDocument is the stored shape of a doctor. Old documents may carry
// timings as a [start, end] string pair or not at all; conversion to the
// model always goes through models.NormalizeSchedule.
type doctorDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	User           primitive.ObjectID   `bson:"user"`
	Name           string               `bson:"name"`
	Specialization string               `bson:"specialization"`
	Experience     int                  `bson:"experience"`
	Fees           float64              `bson:"fees"`
	Phone          string               `bson:"phone"`
	Address        string               `bson:"address"`
	Bio            string               `bson:"bio"`
	Image          string               `bson:"image"`
	Rating         float64              `bson:"rating"`
	NumReviews     int                  `bson:"numReviews"`
	Timings        models.ScheduleInput `bson:"timings"`
	AvailableDays  []string             `bson:"availableDays"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func (d *doctorDocument) toModel() *models.Doctor {
	doc := &models.Doctor{
		ID:             d.ID,
		User:           d.User,
		Name:           d.Name,
		Specialization: d.Specialization,
		Experience:     d.Experience,
		Fees:           d.Fees,
		Phone:          d.Phone,
		Address:        d.Address,
		Bio:            d.Bio,
		Image:          d.Image,
		Rating:         d.Rating,
		NumReviews:     d.NumReviews,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	doc.SetSchedule(models.NormalizeSchedule(d.Timings, d.AvailableDays))
	return doc
}

func newDoctorDocument(m *models.Doctor) *doctorDocument {
	sched := models.NormalizeSchedule(m.Timings.Input(), nil)
	return &doctorDocument{
		ID:             m.ID,
		User:           m.User,
		Name:           m.Name,
		Specialization: m.Specialization,
		Experience:     m.Experience,
		Fees:           m.Fees,
		Phone:          m.Phone,
		Address:        m.Address,
		Bio:            m.Bio,
		Image:          m.Image,
		Rating:         m.Rating,
		NumReviews:     m.NumReviews,
		Timings:        sched.Input(),
		AvailableDays:  sched.AvailableDays(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type DoctorStore struct {
	coll *mongo.Collection
}

func NewDoctorStore(db *mongo.Database) *DoctorStore {
	return &DoctorStore{coll: db.Collection(DoctorsCollection)}
}

func (s *DoctorStore) Create(ctx context.Context, d *models.Doctor) error {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now

	doc := newDoctorDocument(d)
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	d.SetSchedule(models.NormalizeSchedule(doc.Timings, nil))
	return nil
}

func (s *DoctorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *DoctorStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	return s.findOne(ctx, bson.M{"user": userID})
}

func (s *DoctorStore) findOne(ctx context.Context, filter bson.M) (*models.Doctor, error) {
	var doc doctorDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

// doctorQuery matches specialization exactly and name as a case-insensitive
// substring. Search text is matched literally.
func doctorQuery(f models.DoctorFilter) bson.M {
	filter := bson.M{}
	if f.Specialization != "" {
		filter["specialization"] = f.Specialization
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

// List returns doctors matching f, best rated first.
func (s *DoctorStore) List(ctx context.Context, f models.DoctorFilter) ([]*models.Doctor, error) {
	filter := doctorQuery(f)
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var docs []doctorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	doctors := make([]*models.Doctor, 0, len(docs))
	for i := range docs {
		doctors = append(doctors, docs[i].toModel())
	}
	return doctors, nil
}

func (s *DoctorStore) Update(ctx context.Context, d *models.Doctor) error {
	d.UpdatedAt = time.Now().UTC()
	doc := newDoctorDocument(d)

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, doc)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	d.SetSchedule(models.NormalizeSchedule(doc.Timings, nil))
	return nil
}
