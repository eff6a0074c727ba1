package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

// ReminderJob notifies patients of confirmed appointments falling on the
// next calendar day (UTC).
type ReminderJob struct {
	appointments AppointmentRepository
	doctors      DoctorRepository
	users        UserRepository
	notifier     Notifier
	log          *logrus.Logger
	now          func() time.Time
}

func NewReminderJob(appointments AppointmentRepository, doctors DoctorRepository, users UserRepository, notifier Notifier, log *logrus.Logger) *ReminderJob {
	return &ReminderJob{
		appointments: appointments,
		doctors:      doctors,
		users:        users,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Schedule registers the job on a new cron scheduler. The caller starts and
// stops the returned scheduler.
func (j *ReminderJob) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.log.WithError(err).Error("reminder run failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	return c, nil
}

// Run sends one reminder per confirmed appointment tomorrow and returns how
// many were sent.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	now := j.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	apts, err := j.appointments.ListByStatusBetween(ctx, models.StatusConfirmed, from, to)
	if err != nil {
		return 0, fmt.Errorf("list confirmed appointments: %w", err)
	}

	sent := 0
	for _, apt := range apts {
		patient, err := j.users.FindByID(ctx, apt.User)
		if err != nil {
			j.log.WithError(err).WithField("appointment_id", apt.ID.Hex()).Warn("reminder skipped: patient lookup")
			continue
		}
		doctor, err := j.doctors.FindByID(ctx, apt.Doctor)
		if err != nil {
			j.log.WithError(err).WithField("appointment_id", apt.ID.Hex()).Warn("reminder skipped: doctor lookup")
			continue
		}
		j.notifier.AppointmentReminder(patient, doctor, apt)
		sent++
	}

	j.log.WithFields(logrus.Fields{"date": from.Format("2006-01-02"), "sent": sent}).Info("appointment reminders sent")
	return sent, nil
}
