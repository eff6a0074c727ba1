package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

type NotificationConfig struct {
	TextbeltKey string
	TextbeltURL string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
}

// NotificationService sends appointment notices by SMS through Textbelt and
// by e-mail over SMTP. Delivery is best effort: failures are logged and
// never reach the caller. A channel without configuration is skipped.
type NotificationService struct {
	cfg    NotificationConfig
	http   *http.Client
	dialer *gomail.Dialer
	log    *logrus.Logger

	// dispatch runs a delivery; it defaults to a new goroutine so the API
	// response is not held up.
	dispatch func(func())
}

func NewNotificationService(cfg NotificationConfig, log *logrus.Logger) *NotificationService {
	s := &NotificationService{
		cfg:      cfg,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
		dispatch: func(f func()) { go f() },
	}
	if cfg.SMTPHost != "" {
		s.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
	return s
}

const slotLayout = "Jan 2, 2006"

func (s *NotificationService) AppointmentBooked(patient *models.User, doctor *models.Doctor, apt *models.Appointment) {
	s.notify(patient, "Appointment booked",
		fmt.Sprintf("Appointment booked: %s with Dr. %s on %s (%s). Status: %s.",
			doctor.Specialization, doctor.Name, apt.AppointmentDate.Format(slotLayout), apt.TimeSlot, apt.Status))
}

func (s *NotificationService) AppointmentStatusChanged(patient *models.User, doctor *models.Doctor, apt *models.Appointment) {
	s.notify(patient, "Appointment "+string(apt.Status),
		fmt.Sprintf("Your appointment with Dr. %s on %s (%s) is now %s.",
			doctor.Name, apt.AppointmentDate.Format(slotLayout), apt.TimeSlot, apt.Status))
}

func (s *NotificationService) AppointmentReminder(patient *models.User, doctor *models.Doctor, apt *models.Appointment) {
	s.notify(patient, "Appointment reminder",
		fmt.Sprintf("Reminder: you see Dr. %s (%s) on %s at %s.",
			doctor.Name, doctor.Specialization, apt.AppointmentDate.Format(slotLayout), apt.TimeSlot))
}

func (s *NotificationService) notify(patient *models.User, subject, body string) {
	phone, email := patient.PhoneNumber, patient.Email
	s.dispatch(func() {
		if err := s.sendSMS(phone, body); err != nil {
			s.log.WithError(err).WithField("phone", phone).Warn("sms not sent")
		}
		if err := s.sendEmail(email, subject, body); err != nil {
			s.log.WithError(err).WithField("email", email).Warn("email not sent")
		}
	})
}

type textbeltResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *NotificationService) sendSMS(phone, message string) error {
	if s.cfg.TextbeltKey == "" || phone == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.cfg.TextbeltKey,
	})
	if err != nil {
		return err
	}

	resp, err := s.http.Post(s.cfg.TextbeltURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected message: %s", result.Error)
	}
	s.log.WithField("phone", phone).Info("sms sent")
	return nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.dialer == nil || to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.log.WithField("email", to).Info("email sent")
	return nil
}
