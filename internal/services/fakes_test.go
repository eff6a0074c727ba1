package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

// -- Mock Repositories --

type mockUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	m.users[u.ID] = *u
	return nil
}

type mockDoctorRepo struct {
	doctors    map[primitive.ObjectID]models.Doctor
	lastFilter models.DoctorFilter
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[primitive.ObjectID]models.Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *models.Doctor) error {
	for _, existing := range m.doctors {
		if existing.User == d.User {
			return store.ErrDuplicate
		}
	}
	d.ID = primitive.NewObjectID()
	m.doctors[d.ID] = *d
	return nil
}

func (m *mockDoctorRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (m *mockDoctorRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	for _, d := range m.doctors {
		if d.User == userID {
			d := d
			return &d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockDoctorRepo) List(_ context.Context, f models.DoctorFilter) ([]*models.Doctor, error) {
	m.lastFilter = f
	var result []*models.Doctor
	for _, d := range m.doctors {
		if f.Specialization != "" && d.Specialization != f.Specialization {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Search)) {
			continue
		}
		d := d
		result = append(result, &d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (m *mockDoctorRepo) Update(_ context.Context, d *models.Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return store.ErrNotFound
	}
	m.doctors[d.ID] = *d
	return nil
}

type mockAppointmentRepo struct {
	appointments map[primitive.ObjectID]models.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[primitive.ObjectID]models.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.appointments[a.ID] = *a
	return nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *mockAppointmentRepo) filter(keep func(models.Appointment) bool, less func(a, b *models.Appointment) bool) []*models.Appointment {
	result := make([]*models.Appointment, 0)
	for _, a := range m.appointments {
		if keep(a) {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, userID primitive.ObjectID) ([]*models.Appointment, error) {
	return m.filter(
		func(a models.Appointment) bool { return a.User == userID },
		func(a, b *models.Appointment) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (m *mockAppointmentRepo) ListByDoctor(_ context.Context, doctorID primitive.ObjectID) ([]*models.Appointment, error) {
	return m.filter(
		func(a models.Appointment) bool { return a.Doctor == doctorID },
		func(a, b *models.Appointment) bool { return a.AppointmentDate.Before(b.AppointmentDate) },
	), nil
}

func (m *mockAppointmentRepo) ListByStatusBetween(_ context.Context, status models.Status, from, to time.Time) ([]*models.Appointment, error) {
	return m.filter(
		func(a models.Appointment) bool {
			return a.Status == status && !a.AppointmentDate.Before(from) && a.AppointmentDate.Before(to)
		},
		func(a, b *models.Appointment) bool { return a.AppointmentDate.Before(b.AppointmentDate) },
	), nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, a *models.Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return store.ErrNotFound
	}
	m.appointments[a.ID] = *a
	return nil
}

type mockDoctorCache struct {
	entries map[string]models.Doctor
	deletes int
}

func newMockDoctorCache() *mockDoctorCache {
	return &mockDoctorCache{entries: make(map[string]models.Doctor)}
}

func (m *mockDoctorCache) Get(_ context.Context, id string) (*models.Doctor, bool) {
	d, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (m *mockDoctorCache) Set(_ context.Context, d *models.Doctor) { m.entries[d.ID.Hex()] = *d }

func (m *mockDoctorCache) Delete(_ context.Context, id string) {
	delete(m.entries, id)
	m.deletes++
}

type notice struct {
	kind      string
	patientID primitive.ObjectID
	status    models.Status
}

type mockNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (m *mockNotifier) record(kind string, patient *models.User, apt *models.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, notice{kind: kind, patientID: patient.ID, status: apt.Status})
}

func (m *mockNotifier) AppointmentBooked(p *models.User, _ *models.Doctor, a *models.Appointment) {
	m.record("booked", p, a)
}

func (m *mockNotifier) AppointmentStatusChanged(p *models.User, _ *models.Doctor, a *models.Appointment) {
	m.record("status", p, a)
}

func (m *mockNotifier) AppointmentReminder(p *models.User, _ *models.Doctor, a *models.Appointment) {
	m.record("reminder", p, a)
}

// -- Fixtures --

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testTokens() *utils.TokenIssuer {
	issuer, err := utils.NewTokenIssuer("test-secret", utils.DefaultTokenTTL)
	if err != nil {
		panic(err)
	}
	return issuer
}

func testHasher() *utils.PasswordHasher {
	return utils.NewPasswordHasher(4)
}

func seedUser(repo *mockUserRepo, name string, isDoctor, isAdmin bool) *models.User {
	u := &models.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		IsDoctor: isDoctor,
		IsAdmin:  isAdmin,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int { return &i }
func boolPtr(b bool) *bool { return &b }
