package seed

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

type memUsers struct {
	byID map[primitive.ObjectID]*models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, found := m.byID[id]; found {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Count(context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

type memDoctors struct {
	byID map[primitive.ObjectID]*models.Doctor
}

func (m *memDoctors) Create(_ context.Context, d *models.Doctor) error {
	d.ID = primitive.NewObjectID()
	m.byID[d.ID] = d
	return nil
}

func (m *memDoctors) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	if d, found := m.byID[id]; found {
		return d, nil
	}
	return nil, store.ErrNotFound
}

func (m *memDoctors) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	for _, d := range m.byID {
		if d.User == userID {
			return d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memDoctors) List(context.Context, models.DoctorFilter) ([]*models.Doctor, error) {
	out := make([]*models.Doctor, 0, len(m.byID))
	for _, d := range m.byID {
		out = append(out, d)
	}
	return out, nil
}

func (m *memDoctors) Update(_ context.Context, d *models.Doctor) error {
	m.byID[d.ID] = d
	return nil
}

func newSeeder() (*Seeder, *memUsers, *memDoctors) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	users := &memUsers{byID: map[primitive.ObjectID]*models.User{}}
	docs := &memDoctors{byID: map[primitive.ObjectID]*models.Doctor{}}
	doctorSvc := services.NewDoctorService(docs, users, nil, log)
	return New(users, doctorSvc, utils.NewPasswordHasher(4), log), users, docs
}

func TestSeeder_Run(t *testing.T) {
	s, users, docs := newSeeder()

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantUsers := 1 + len(patients) + len(doctors)
	if res.Users != wantUsers || res.Doctors != len(doctors) {
		t.Errorf("unexpected result %+v", res)
	}

	adminUser, err := users.FindByEmail(context.Background(), admin.Email)
	if err != nil || !adminUser.IsAdmin || adminUser.Password == admin.Password {
		t.Fatalf("admin not seeded with a hashed password: %+v, %v", adminUser, err)
	}

	owner, _ := users.FindByEmail(context.Background(), "rajesh.sharma@example.com")
	d, err := docs.FindByUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("doctor profile missing: %v", err)
	}
	if d.Name != "Dr. Rajesh Sharma" || d.Fees != 1800 || d.Address == "" {
		t.Errorf("unexpected profile %+v", d)
	}
	if len(d.Timings) != 7 || !reflect.DeepEqual(d.AvailableDays, []string{"Monday", "Wednesday", "Friday"}) {
		t.Errorf("legacy timings not normalized: %+v %v", d.Timings, d.AvailableDays)
	}

	pulmo, _ := users.FindByEmail(context.Background(), "alok.singhania@example.com")
	if p, _ := docs.FindByUser(context.Background(), pulmo.ID); p.Address != models.DefaultAddress {
		t.Errorf("expected default address, got %q", p.Address)
	}
}

func TestSeeder_RunTwiceSkipsExisting(t *testing.T) {
	s, users, docs := newSeeder()
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if res.Users != 0 || res.Doctors != 0 {
		t.Errorf("expected nothing new, got %+v", res)
	}
	if res.SkippedDoctors != len(doctors) || res.SkippedUsers != 1+len(patients)+len(doctors) {
		t.Errorf("unexpected skip counts %+v", res)
	}
	if len(docs.byID) != len(doctors) || len(users.byID) != 1+len(patients)+len(doctors) {
		t.Errorf("duplicates created: %d doctors, %d users", len(docs.byID), len(users.byID))
	}
}
