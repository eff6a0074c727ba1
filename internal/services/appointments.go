package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/store"
)

type BookingInput struct {
	Doctor          string
	AppointmentDate time.Time
	TimeSlot        string
	Reason          string
	PaymentMethod   models.PaymentMethod
	IsPaid          bool
}

func (in *BookingInput) validate() error {
	v := &ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(in.Doctor) == "" {
		v.Fields["doctor"] = "doctor is required"
	}
	if in.AppointmentDate.IsZero() {
		v.Fields["appointmentDate"] = "appointmentDate is required"
	}
	if strings.TrimSpace(in.TimeSlot) == "" {
		v.Fields["timeSlot"] = "timeSlot is required"
	}
	if strings.TrimSpace(in.Reason) == "" {
		v.Fields["reason"] = "reason is required"
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		v.Fields["paymentMethod"] = "paymentMethod must be one of card, phonepe, googlepay"
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// StatusUpdate changes an appointment's status and notes. An empty Status
// keeps the current one; a nil Notes keeps the current notes.
type StatusUpdate struct {
	Status models.Status
	Notes  *string
}

type AppointmentService struct {
	appointments AppointmentRepository
	doctors      DoctorRepository
	users        UserRepository
	notifier     Notifier
	log          *logrus.Logger
}

func NewAppointmentService(appointments AppointmentRepository, doctors DoctorRepository, users UserRepository, notifier Notifier, log *logrus.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		users:        users,
		notifier:     notifier,
		log:          log,
	}
}

// Create books an appointment for patient. The doctor's current fee is
// copied onto the appointment and never follows later fee changes.
func (s *AppointmentService) Create(ctx context.Context, patient *models.User, in BookingInput) (*models.Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	doctorID, err := parseRef("doctor", in.Doctor)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCard
	}

	apt := &models.Appointment{
		Doctor:          doctor.ID,
		User:            patient.ID,
		AppointmentDate: in.AppointmentDate.UTC(),
		TimeSlot:        strings.TrimSpace(in.TimeSlot),
		Reason:          strings.TrimSpace(in.Reason),
		Status:          models.StatusPending,
		PaymentMethod:   method,
		IsPaid:          in.IsPaid,
		Fees:            doctor.Fees,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": apt.ID.Hex(),
		"doctor_id":      doctor.ID.Hex(),
		"user_id":        patient.ID.Hex(),
	}).Info("appointment booked")

	if s.notifier != nil {
		s.notifier.AppointmentBooked(patient, doctor, apt)
	}
	return apt, nil
}

// Get returns the appointment with its doctor and patient resolved. Only
// the patient, the appointment's doctor or an admin may read it.
func (s *AppointmentService) Get(ctx context.Context, id string, requester *models.User) (*models.AppointmentDetail, error) {
	apt, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.User != requester.ID && !requester.IsAdmin {
		ok, err := s.ownsAsDoctor(ctx, requester, apt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
	}

	r := newResolver(s)
	return &models.AppointmentDetail{
		Appointment: *apt,
		DoctorInfo:  r.doctor(ctx, apt.Doctor),
		PatientInfo: r.patient(ctx, apt.User),
	}, nil
}

// ListForPatient returns the patient's appointments, most recently booked first.
func (s *AppointmentService) ListForPatient(ctx context.Context, patient *models.User) ([]*models.AppointmentDetail, error) {
	apts, err := s.appointments.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	r := newResolver(s)
	out := make([]*models.AppointmentDetail, 0, len(apts))
	for _, apt := range apts {
		out = append(out, &models.AppointmentDetail{
			Appointment: *apt,
			DoctorInfo:  r.doctor(ctx, apt.Doctor),
		})
	}
	return out, nil
}

// ListForDoctor returns the appointments of the requester's doctor profile,
// earliest appointment date first.
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorUser *models.User) ([]*models.AppointmentDetail, error) {
	profile, err := s.doctors.FindByUser(ctx, doctorUser.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorProfileNotFound
		}
		return nil, fmt.Errorf("find doctor profile: %w", err)
	}

	apts, err := s.appointments.ListByDoctor(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	r := newResolver(s)
	out := make([]*models.AppointmentDetail, 0, len(apts))
	for _, apt := range apts {
		out = append(out, &models.AppointmentDetail{
			Appointment: *apt,
			PatientInfo: r.patient(ctx, apt.User),
		})
	}
	return out, nil
}

// UpdateStatus is reserved to the doctor the appointment was booked with.
// Status changes must follow the appointment state machine.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, requester *models.User, upd StatusUpdate) (*models.Appointment, error) {
	apt, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.ownsAsDoctor(ctx, requester, apt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	previous := apt.Status
	if upd.Status != "" {
		if !upd.Status.Valid() {
			return nil, invalid("status", "status must be one of pending, confirmed, completed, cancelled")
		}
		if !apt.Status.CanTransitionTo(upd.Status) {
			return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidState, apt.Status, upd.Status)
		}
		apt.Status = upd.Status
	}
	if upd.Notes != nil {
		apt.Notes = *upd.Notes
	}

	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}

	if apt.Status != previous {
		s.log.WithFields(logrus.Fields{
			"appointment_id": apt.ID.Hex(),
			"from":           previous,
			"to":             apt.Status,
		}).Info("appointment status changed")
		s.notifyStatus(ctx, apt)
	}
	return apt, nil
}

// Cancel is reserved to the patient who booked the appointment. Completed
// and already cancelled appointments cannot be cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, id string, requester *models.User) (*models.Appointment, error) {
	apt, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.User != requester.ID {
		return nil, ErrForbidden
	}
	if !apt.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s appointment", ErrInvalidState, apt.Status)
	}

	apt.Status = models.StatusCancelled
	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}

	s.log.WithField("appointment_id", apt.ID.Hex()).Info("appointment cancelled")
	s.notifyStatus(ctx, apt)
	return apt, nil
}

func (s *AppointmentService) find(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := parsePathID(id, ErrAppointmentNotFound)
	if err != nil {
		return nil, err
	}
	apt, err := s.appointments.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return apt, nil
}

func (s *AppointmentService) save(ctx context.Context, apt *models.Appointment) error {
	if err := s.appointments.Update(ctx, apt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// ownsAsDoctor reports whether user's doctor profile is the one apt was
// booked with.
func (s *AppointmentService) ownsAsDoctor(ctx context.Context, user *models.User, apt *models.Appointment) (bool, error) {
	if !user.IsDoctor {
		return false, nil
	}
	profile, err := s.doctors.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find doctor profile: %w", err)
	}
	return profile.ID == apt.Doctor, nil
}

func (s *AppointmentService) notifyStatus(ctx context.Context, apt *models.Appointment) {
	if s.notifier == nil {
		return
	}
	patient, err := s.users.FindByID(ctx, apt.User)
	if err != nil {
		s.log.WithError(err).WithField("appointment_id", apt.ID.Hex()).Warn("patient lookup for notification failed")
		return
	}
	doctor, err := s.doctors.FindByID(ctx, apt.Doctor)
	if err != nil {
		s.log.WithError(err).WithField("appointment_id", apt.ID.Hex()).Warn("doctor lookup for notification failed")
		return
	}
	s.notifier.AppointmentStatusChanged(patient, doctor, apt)
}

// resolver looks up appointment parties once per request. Dangling
// references resolve to nil.
type resolver struct {
	svc      *AppointmentService
	doctors  map[primitive.ObjectID]*models.DoctorSummary
	patients map[primitive.ObjectID]*models.UserSummary
}

func newResolver(s *AppointmentService) *resolver {
	return &resolver{
		svc:      s,
		doctors:  make(map[primitive.ObjectID]*models.DoctorSummary),
		patients: make(map[primitive.ObjectID]*models.UserSummary),
	}
}

func (r *resolver) doctor(ctx context.Context, id primitive.ObjectID) *models.DoctorSummary {
	if d, ok := r.doctors[id]; ok {
		return d
	}
	var summary *models.DoctorSummary
	if d, err := r.svc.doctors.FindByID(ctx, id); err == nil {
		summary = d.Summary()
	} else if !errors.Is(err, store.ErrNotFound) {
		r.svc.log.WithError(err).WithField("doctor_id", id.Hex()).Warn("resolve doctor")
	}
	r.doctors[id] = summary
	return summary
}

func (r *resolver) patient(ctx context.Context, id primitive.ObjectID) *models.UserSummary {
	if u, ok := r.patients[id]; ok {
		return u
	}
	var summary *models.UserSummary
	if u, err := r.svc.users.FindByID(ctx, id); err == nil {
		summary = u.Summary()
	} else if !errors.Is(err, store.ErrNotFound) {
		r.svc.log.WithError(err).WithField("user_id", id.Hex()).Warn("resolve patient")
	}
	r.patients[id] = summary
	return summary
}
