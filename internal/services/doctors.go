package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/store"
)

const (
	DefaultDoctorLimit = 20
	MaxDoctorLimit     = 100
)

// DoctorFields holds doctor profile attributes from a request. Nil fields
// are absent: defaults apply on create, current values stay on update.
type DoctorFields struct {
	User           string
	Name           *string
	Specialization *string
	Experience     *int
	Fees           *float64
	Phone          *string
	Address        *string
	Bio            *string
	Image          *string
	Rating         *float64
	NumReviews     *int
	Timings        models.ScheduleInput
	AvailableDays  []string
}

func (f *DoctorFields) validate() error {
	v := &ValidationError{Fields: map[string]string{}}
	if f.Experience != nil && *f.Experience < 0 {
		v.Fields["experience"] = "experience must be zero or more"
	}
	if f.Fees != nil && *f.Fees < 0 {
		v.Fields["fees"] = "fees must be zero or more"
	}
	if f.Rating != nil && (*f.Rating < 0 || *f.Rating > 5) {
		v.Fields["rating"] = "rating must be between 0 and 5"
	}
	if f.NumReviews != nil && *f.NumReviews < 0 {
		v.Fields["numReviews"] = "numReviews must be zero or more"
	}
	if f.Timings.Malformed() {
		v.Fields["timings"] = "timings must be a list of day entries or times"
	}
	for _, day := range f.AvailableDays {
		if !models.IsWeekday(day) {
			v.Fields["availableDays"] = fmt.Sprintf("%q is not a day of the week", day)
			break
		}
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

type DoctorService struct {
	doctors DoctorRepository
	users   UserRepository
	cache   DoctorCache
	log     *logrus.Logger
}

func NewDoctorService(doctors DoctorRepository, users UserRepository, cache DoctorCache, log *logrus.Logger) *DoctorService {
	if cache == nil {
		cache = NopDoctorCache{}
	}
	return &DoctorService{doctors: doctors, users: users, cache: cache, log: log}
}

// List returns doctors matching f. A non-positive limit means the default;
// limits above MaxDoctorLimit are capped.
func (s *DoctorService) List(ctx context.Context, f models.DoctorFilter) ([]*models.Doctor, error) {
	f.Specialization = strings.TrimSpace(f.Specialization)
	f.Search = strings.TrimSpace(f.Search)
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultDoctorLimit
	case f.Limit > MaxDoctorLimit:
		f.Limit = MaxDoctorLimit
	}

	doctors, err := s.doctors.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*models.Doctor, error) {
	if d, ok := s.cache.Get(ctx, id); ok {
		return d, nil
	}

	oid, err := parsePathID(id, ErrDoctorNotFound)
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}

	s.cache.Set(ctx, d)
	return d, nil
}

// Create adds the doctor profile of f.User, or of the requester when
// f.User is empty. The owning user must carry the doctor flag and may
// hold only one profile.
func (s *DoctorService) Create(ctx context.Context, requester *models.User, f DoctorFields) (*models.Doctor, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.Specialization == nil || strings.TrimSpace(*f.Specialization) == "" {
		return nil, invalid("specialization", "specialization is required")
	}

	owner := requester
	if f.User != "" {
		id, err := parseRef("user", f.User)
		if err != nil {
			return nil, err
		}
		if owner, err = s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalid("user", "user not found")
			}
			return nil, fmt.Errorf("find user: %w", err)
		}
	}
	if !owner.IsDoctor {
		return nil, invalid("user", "user must have doctor privilege")
	}

	if _, err := s.doctors.FindByUser(ctx, owner.ID); err == nil {
		return nil, ErrDuplicateProfile
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find doctor profile: %w", err)
	}

	d := &models.Doctor{
		User:    owner.ID,
		Name:    owner.Name,
		Fees:    models.DefaultFees,
		Address: models.DefaultAddress,
		Image:   models.DefaultImage,
	}
	f.apply(d)
	d.SetSchedule(models.NormalizeSchedule(f.Timings, f.AvailableDays))

	if err := s.doctors.Create(ctx, d); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateProfile
		}
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"doctor_id": d.ID.Hex(),
		"user_id":   owner.ID.Hex(),
	}).Info("doctor profile created")
	return d, nil
}

// Update overwrites the fields present in f. Only the owning user or an
// admin may update a profile.
func (s *DoctorService) Update(ctx context.Context, id string, requester *models.User, f DoctorFields) (*models.Doctor, error) {
	oid, err := parsePathID(id, ErrDoctorNotFound)
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}

	if d.User != requester.ID && !requester.IsAdmin {
		return nil, ErrForbidden
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.Specialization != nil && strings.TrimSpace(*f.Specialization) == "" {
		return nil, invalid("specialization", "specialization cannot be empty")
	}

	f.apply(d)
	switch {
	case !f.Timings.IsZero():
		d.SetSchedule(models.NormalizeSchedule(f.Timings, f.AvailableDays))
	case len(f.AvailableDays) > 0:
		d.SetSchedule(d.Timings.WithAvailableDays(f.AvailableDays))
	}

	if err := s.doctors.Update(ctx, d); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	s.cache.Delete(ctx, d.ID.Hex())

	s.log.WithFields(logrus.Fields{
		"doctor_id":    d.ID.Hex(),
		"requested_by": requester.ID.Hex(),
	}).Info("doctor profile updated")
	return d, nil
}

// ForUser returns the doctor profile owned by the given user.
func (s *DoctorService) ForUser(ctx context.Context, user *models.User) (*models.Doctor, error) {
	d, err := s.doctors.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorProfileNotFound
		}
		return nil, fmt.Errorf("find doctor profile: %w", err)
	}
	return d, nil
}

func (f *DoctorFields) apply(d *models.Doctor) {
	if f.Name != nil && strings.TrimSpace(*f.Name) != "" {
		d.Name = strings.TrimSpace(*f.Name)
	}
	if f.Specialization != nil {
		d.Specialization = strings.TrimSpace(*f.Specialization)
	}
	if f.Experience != nil {
		d.Experience = *f.Experience
	}
	if f.Fees != nil {
		d.Fees = *f.Fees
	}
	if f.Phone != nil {
		d.Phone = *f.Phone
	}
	if f.Address != nil {
		d.Address = *f.Address
	}
	if f.Bio != nil {
		d.Bio = *f.Bio
	}
	if f.Image != nil {
		d.Image = *f.Image
	}
	if f.Rating != nil {
		d.Rating = *f.Rating
	}
	if f.NumReviews != nil {
		d.NumReviews = *f.NumReviews
	}
}

// NopDoctorCache never holds anything.
type NopDoctorCache struct{}

func (NopDoctorCache) Get(context.Context, string) (*models.Doctor, bool) { return nil, false }
func (NopDoctorCache) Set(context.Context, *models.Doctor) {}
func (NopDoctorCache) Delete(context.Context, string) {}
