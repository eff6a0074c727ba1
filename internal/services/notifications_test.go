package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

func TestNotificationService_SendsSMSThroughTextbelt(t *testing.T) {
	payloads := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		payloads <- body
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	svc := NewNotificationService(NotificationConfig{TextbeltKey: "key-1", TextbeltURL: srv.URL}, testLogger())
	svc.dispatch = func(f func()) { f() }

	patient := &models.User{ID: primitive.NewObjectID(), PhoneNumber: "+15550001111"}
	doctor := &models.Doctor{Name: "Meera Iyer", Specialization: "Cardiology"}
	apt := &models.Appointment{
		AppointmentDate: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "10:00 AM",
		Status:          models.StatusPending,
	}
	svc.AppointmentBooked(patient, doctor, apt)

	got := <-payloads
	if got["phone"] != "+15550001111" || got["key"] != "key-1" {
		t.Fatalf("unexpected textbelt payload %v", got)
	}
	if !strings.Contains(got["message"], "Meera Iyer") || !strings.Contains(got["message"], "Nov 2, 2026") {
		t.Errorf("unexpected message %q", got["message"])
	}
}

func TestNotificationService_SMSRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Out of quota"}`))
	}))
	defer srv.Close()

	svc := NewNotificationService(NotificationConfig{TextbeltKey: "k", TextbeltURL: srv.URL}, testLogger())
	err := svc.sendSMS("+15550001111", "hi")
	if err == nil || !strings.Contains(err.Error(), "Out of quota") {
		t.Errorf("expected rejection error, got %v", err)
	}
}

func TestNotificationService_SkipsUnconfiguredChannels(t *testing.T) {
	svc := NewNotificationService(NotificationConfig{}, testLogger())
	if err := svc.sendSMS("+15550001111", "hi"); err != nil {
		t.Errorf("sms without key: %v", err)
	}
	if err := svc.sendEmail("a@example.com", "s", "b"); err != nil {
		t.Errorf("email without smtp host: %v", err)
	}
}
