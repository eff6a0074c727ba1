package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

type appointmentFixture struct {
	svc          *AppointmentService
	doctorSvc    *DoctorService
	appointments *mockAppointmentRepo
	doctors      *mockDoctorRepo
	users        *mockUserRepo
	notifier     *mockNotifier

	admin      *models.User
	patient    *models.User
	doctorUser *models.User
	doctor     *models.Doctor
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	f := &appointmentFixture{
		appointments: newMockAppointmentRepo(),
		doctors:      newMockDoctorRepo(),
		users:        newMockUserRepo(),
		notifier:     &mockNotifier{},
	}
	f.svc = NewAppointmentService(f.appointments, f.doctors, f.users, f.notifier, testLogger())
	f.doctorSvc = NewDoctorService(f.doctors, f.users, nil, testLogger())

	f.admin = seedUser(f.users, "Admin", false, true)
	f.patient = seedUser(f.users, "Patient One", false, false)
	f.doctorUser = seedUser(f.users, "Meera Iyer", true, false)

	d, err := f.doctorSvc.Create(context.Background(), f.admin, DoctorFields{
		User:           f.doctorUser.ID.Hex(),
		Specialization: strPtr("Cardiology"),
		Fees:           floatPtr(1800),
	})
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	f.doctor = d
	return f
}

func (f *appointmentFixture) book(t *testing.T, patient *models.User) *models.Appointment {
	t.Helper()
	apt, err := f.svc.Create(context.Background(), patient, BookingInput{
		Doctor:          f.doctor.ID.Hex(),
		AppointmentDate: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "10:00 AM",
		Reason:          "Chest pain",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return apt
}

func (f *appointmentFixture) setStatus(id primitive.ObjectID, s models.Status) {
	a := f.appointments.appointments[id]
	a.Status = s
	f.appointments.appointments[id] = a
}

func TestAppointmentService_CreateSnapshotsFee(t *testing.T) {
	fx := newAppointmentFixture(t)
	ctx := context.Background()

	apt := fx.book(t, fx.patient)
	if apt.Fees != 1800 || apt.Status != models.StatusPending || apt.PaymentMethod != models.PaymentCard {
		t.Fatalf("unexpected new appointment %+v", apt)
	}

	if _, err := fx.doctorSvc.Update(ctx, fx.doctor.ID.Hex(), fx.admin, DoctorFields{Fees: floatPtr(2000)}); err != nil {
		t.Fatalf("fee update: %v", err)
	}

	got, err := fx.svc.Get(ctx, apt.ID.Hex(), fx.patient)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Fees != 1800 {
		t.Errorf("stored fee = %v, want 1800", got.Fees)
	}
	if got.DoctorInfo == nil || got.DoctorInfo.Fees != 2000 {
		t.Errorf("expected doctor summary with current fee, got %+v", got.DoctorInfo)
	}
	if got.PatientInfo == nil || got.PatientInfo.ID != fx.patient.ID {
		t.Errorf("expected patient summary, got %+v", got.PatientInfo)
	}

	if len(fx.notifier.notices) != 1 || fx.notifier.notices[0].kind != "booked" {
		t.Errorf("expected one booking notice, got %+v", fx.notifier.notices)
	}
}

func TestAppointmentService_CreateValidation(t *testing.T) {
	fx := newAppointmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.patient, BookingInput{Doctor: fx.doctor.ID.Hex()})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"appointmentDate", "timeSlot", "reason"} {
		if verr.Fields[field] == "" {
			t.Errorf("expected %s to be reported", field)
		}
	}

	_, err = fx.svc.Create(ctx, fx.patient, BookingInput{
		Doctor: fx.doctor.ID.Hex(), AppointmentDate: time.Now(), TimeSlot: "x", Reason: "y", PaymentMethod: "cash",
	})
	if !errors.As(err, &verr) || verr.Fields["paymentMethod"] == "" {
		t.Errorf("expected paymentMethod ValidationError, got %v", err)
	}

	_, err = fx.svc.Create(ctx, fx.patient, BookingInput{
		Doctor: "000000000000000000000000", AppointmentDate: time.Now(), TimeSlot: "x", Reason: "y",
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestAppointmentService_Cancel(t *testing.T) {
	tests := []struct {
		from    models.Status
		wantErr error
	}{
		{models.StatusPending, nil},
		{models.StatusConfirmed, nil},
		{models.StatusCompleted, ErrInvalidState},
		{models.StatusCancelled, ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			fx := newAppointmentFixture(t)
			apt := fx.book(t, fx.patient)
			fx.setStatus(apt.ID, tt.from)

			got, err := fx.svc.Cancel(context.Background(), apt.ID.Hex(), fx.patient)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if fx.appointments.appointments[apt.ID].Status != tt.from {
					t.Error("failed cancel must not change the status")
				}
				return
			}
			if err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if got.Status != models.StatusCancelled || fx.appointments.appointments[apt.ID].Status != models.StatusCancelled {
				t.Errorf("expected cancelled, got %s", got.Status)
			}
		})
	}
}

func TestAppointmentService_CancelOnlyByBookingPatient(t *testing.T) {
	fx := newAppointmentFixture(t)
	apt := fx.book(t, fx.patient)
	other := seedUser(fx.users, "Other Patient", false, false)

	for _, requester := range []*models.User{other, fx.doctorUser, fx.admin} {
		if _, err := fx.svc.Cancel(context.Background(), apt.ID.Hex(), requester); !errors.Is(err, ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", requester.Name, err)
		}
	}
	if fx.appointments.appointments[apt.ID].Status != models.StatusPending {
		t.Error("appointment must be unchanged")
	}
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	fx := newAppointmentFixture(t)
	ctx := context.Background()
	apt := fx.book(t, fx.patient)

	got, err := fx.svc.UpdateStatus(ctx, apt.ID.Hex(), fx.doctorUser, StatusUpdate{Status: models.StatusConfirmed, Notes: strPtr("Bring reports")})
	if err != nil {
		t.Fatalf("confirm error = %v", err)
	}
	if got.Status != models.StatusConfirmed || got.Notes != "Bring reports" {
		t.Errorf("unexpected appointment %+v", got)
	}

	if _, err := fx.svc.UpdateStatus(ctx, apt.ID.Hex(), fx.doctorUser, StatusUpdate{Status: models.StatusPending}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("confirmed -> pending: expected ErrInvalidState, got %v", err)
	}

	got, err = fx.svc.UpdateStatus(ctx, apt.ID.Hex(), fx.doctorUser, StatusUpdate{Notes: strPtr("Follow up in 2 weeks")})
	if err != nil || got.Status != models.StatusConfirmed || got.Notes != "Follow up in 2 weeks" {
		t.Errorf("notes-only update: got %+v, err %v", got, err)
	}

	if _, err := fx.svc.UpdateStatus(ctx, apt.ID.Hex(), fx.doctorUser, StatusUpdate{Status: models.StatusCompleted}); err != nil {
		t.Fatalf("complete error = %v", err)
	}
	if _, err := fx.svc.UpdateStatus(ctx, apt.ID.Hex(), fx.doctorUser, StatusUpdate{Status: models.StatusCancelled}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("completed -> cancelled: expected ErrInvalidState, got %v", err)
	}

	if _, err := fx.svc.UpdateStatus(ctx, apt.ID.Hex(), fx.doctorUser, StatusUpdate{Status: "archived"}); err == nil {
		t.Error("expected unknown status to be rejected")
	}

	statusNotices := 0
	for _, n := range fx.notifier.notices {
		if n.kind == "status" {
			statusNotices++
		}
	}
	if statusNotices != 2 {
		t.Errorf("expected 2 status notices, got %d", statusNotices)
	}
}

func TestAppointmentService_UpdateStatusOnlyByOwningDoctor(t *testing.T) {
	fx := newAppointmentFixture(t)
	ctx := context.Background()
	apt := fx.book(t, fx.patient)

	otherDoctorUser := seedUser(fx.users, "Other Doctor", true, false)
	if _, err := fx.doctorSvc.Create(ctx, fx.admin, DoctorFields{User: otherDoctorUser.ID.Hex(), Specialization: strPtr("ENT")}); err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	for _, requester := range []*models.User{otherDoctorUser, fx.patient, fx.admin} {
		_, err := fx.svc.UpdateStatus(ctx, apt.ID.Hex(), requester, StatusUpdate{Status: models.StatusConfirmed})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", requester.Name, err)
		}
	}
}

func TestAppointmentService_GetAuthorization(t *testing.T) {
	fx := newAppointmentFixture(t)
	ctx := context.Background()
	apt := fx.book(t, fx.patient)
	stranger := seedUser(fx.users, "Stranger", false, false)

	for _, requester := range []*models.User{fx.patient, fx.doctorUser, fx.admin} {
		if _, err := fx.svc.Get(ctx, apt.ID.Hex(), requester); err != nil {
			t.Errorf("%s: unexpected error %v", requester.Name, err)
		}
	}
	if _, err := fx.svc.Get(ctx, apt.ID.Hex(), stranger); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := fx.svc.Get(ctx, "bogus", fx.admin); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestAppointmentService_Lists(t *testing.T) {
	fx := newAppointmentFixture(t)
	ctx := context.Background()

	early := fx.book(t, fx.patient)
	late := fx.book(t, fx.patient)
	a := fx.appointments.appointments[late.ID]
	a.AppointmentDate = early.AppointmentDate.Add(48 * time.Hour)
	a.CreatedAt = early.CreatedAt.Add(-time.Hour)
	fx.appointments.appointments[late.ID] = a

	mine, err := fx.svc.ListForPatient(ctx, fx.patient)
	if err != nil {
		t.Fatalf("ListForPatient() error = %v", err)
	}
	if len(mine) != 2 || mine[0].ID != early.ID {
		t.Fatalf("expected newest booking first, got %d items", len(mine))
	}
	if mine[0].DoctorInfo == nil || mine[0].DoctorInfo.Name != "Meera Iyer" {
		t.Errorf("expected doctor summary, got %+v", mine[0].DoctorInfo)
	}

	theirs, err := fx.svc.ListForDoctor(ctx, fx.doctorUser)
	if err != nil {
		t.Fatalf("ListForDoctor() error = %v", err)
	}
	if len(theirs) != 2 || theirs[0].ID != early.ID || theirs[1].ID != late.ID {
		t.Errorf("expected appointment date ascending order")
	}
	if theirs[0].PatientInfo == nil || theirs[0].PatientInfo.Email != fx.patient.Email {
		t.Errorf("expected patient summary, got %+v", theirs[0].PatientInfo)
	}

	noProfile := seedUser(fx.users, "New Doctor", true, false)
	if _, err := fx.svc.ListForDoctor(ctx, noProfile); !errors.Is(err, ErrDoctorProfileNotFound) {
		t.Errorf("expected ErrDoctorProfileNotFound, got %v", err)
	}
}
