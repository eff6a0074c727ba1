// Package seed loads demo accounts and doctor profiles.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type DoctorCreator interface {
	Create(ctx context.Context, requester *models.User, f services.DoctorFields) (*models.Doctor, error)
}

// Result counts what a run created and what already existed.
type Result struct {
	Users          int
	Doctors        int
	SkippedUsers   int
	SkippedDoctors int
}

type Seeder struct {
	users   UserStore
	doctors DoctorCreator
	hasher  *utils.PasswordHasher
	log     *logrus.Logger
}

func New(users UserStore, doctors DoctorCreator, hasher *utils.PasswordHasher, log *logrus.Logger) *Seeder {
	return &Seeder{users: users, doctors: doctors, hasher: hasher, log: log}
}

// Run creates the admin, patients and doctors. Accounts whose e-mail is
// already registered are reused, and existing doctor profiles are left alone,
// so Run can be repeated safely.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	adminUser, err := s.ensureUser(ctx, admin, &res)
	if err != nil {
		return res, err
	}
	for _, p := range patients {
		if _, err := s.ensureUser(ctx, p, &res); err != nil {
			return res, err
		}
	}

	for _, d := range doctors {
		owner, err := s.ensureUser(ctx, d.account, &res)
		if err != nil {
			return res, err
		}
		if err := s.createProfile(ctx, adminUser, owner, d); err != nil {
			if errors.Is(err, services.ErrDuplicateProfile) {
				res.SkippedDoctors++
				continue
			}
			return res, err
		}
		res.Doctors++
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"users_created":   res.Users,
		"users_skipped":   res.SkippedUsers,
		"doctors_created": res.Doctors,
		"doctors_skipped": res.SkippedDoctors,
		"users_total":     total,
	}).Info("seed completed")
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, a account, res *Result) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, a.Email)
	if err == nil {
		res.SkippedUsers++
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", a.Email, err)
	}

	hash, err := s.hasher.HashPassword(a.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:        a.Name,
		Email:       a.Email,
		Password:    hash,
		PhoneNumber: a.PhoneNumber,
		IsDoctor:    a.IsDoctor,
		IsAdmin:     a.IsAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create %s: %w", a.Email, err)
	}
	res.Users++
	s.log.WithField("email", a.Email).Debug("seeded user")
	return u, nil
}

func (s *Seeder) createProfile(ctx context.Context, requester, owner *models.User, d doctorProfile) error {
	f := services.DoctorFields{
		User:           owner.ID.Hex(),
		Specialization: &d.Specialization,
		Experience:     &d.Experience,
		Fees:           &d.Fees,
		Phone:          &d.PhoneNumber,
		Bio:            &d.Bio,
		Rating:         &d.Rating,
		NumReviews:     &d.NumReviews,
		Timings:        models.ScheduleInput{Times: d.Timings},
		AvailableDays:  d.AvailableDays,
	}
	if d.Address != "" {
		f.Address = &d.Address
	}
	if _, err := s.doctors.Create(ctx, requester, f); err != nil {
		return fmt.Errorf("create doctor %s: %w", d.Email, err)
	}
	return nil
}
