package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestValidateCard(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	valid := Card{Name: "Asha Rao", Number: "4242 4242 4242 4242", Expiry: "12/27", CVC: "123"}

	tests := []struct {
		name  string
		edit  func(c *Card)
		field string
	}{
		{"valid", func(c *Card) {}, ""},
		{"four digit cvc", func(c *Card) { c.CVC = "1234" }, ""},
		{"expires end of this month", func(c *Card) { c.Expiry = "10/26" }, ""},
		{"missing name", func(c *Card) { c.Name = "" }, "card"},
		{"short number", func(c *Card) { c.Number = "4242 4242" }, "number"},
		{"letters in number", func(c *Card) { c.Number = "4242424242424abc" }, "number"},
		{"bad expiry format", func(c *Card) { c.Expiry = "1227" }, "expiry"},
		{"month 13", func(c *Card) { c.Expiry = "13/27" }, "expiry"},
		{"expired last month", func(c *Card) { c.Expiry = "09/26" }, "expiry"},
		{"two digit cvc", func(c *Card) { c.CVC = "12" }, "cvc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := valid
			tt.edit(&card)
			err := ValidateCard(card, now)
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			var cardErr *CardError
			if !errors.As(err, &cardErr) || cardErr.Field != tt.field {
				t.Errorf("expected %s error, got %v", tt.field, err)
			}
		})
	}
}

func TestPayAndBook(t *testing.T) {
	bookings := make(chan BookingRequest, 4)
	c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in BookingRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		bookings <- in
		writeData(w, http.StatusCreated, Appointment{ID: "a1", Status: "pending", IsPaid: in.IsPaid})
	})
	c.now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }
	req := BookingRequest{Doctor: "d1", AppointmentDate: "2026-11-02", TimeSlot: "10:00 AM", Reason: "checkup"}

	apt, err := c.PayAndBook(context.Background(), req, Payment{Method: PaymentGooglePay})
	if err != nil {
		t.Fatalf("wallet PayAndBook() error = %v", err)
	}
	booked := <-bookings
	if !apt.IsPaid || !booked.IsPaid || booked.PaymentMethod != PaymentGooglePay {
		t.Errorf("unexpected booking %+v", booked)
	}
	if len(sleeps.delays) != 1 || sleeps.delays[0] != WalletSettleDelay {
		t.Errorf("wallet delay = %v", sleeps.delays)
	}

	card := &Card{Name: "Asha Rao", Number: "4242424242424242", Expiry: "01/30", CVC: "999"}
	if _, err := c.PayAndBook(context.Background(), req, Payment{Method: PaymentCard, Card: card}); err != nil {
		t.Fatalf("card PayAndBook() error = %v", err)
	}
	if booked = <-bookings; booked.PaymentMethod != PaymentCard || sleeps.delays[1] != CardSettleDelay {
		t.Errorf("unexpected card booking %+v, delays %v", booked, sleeps.delays)
	}

	card.CVC = "9"
	if _, err := c.PayAndBook(context.Background(), req, Payment{Method: PaymentCard, Card: card}); err == nil {
		t.Fatal("expected an invalid card to be rejected")
	}
	if n := len(bookings); n != 0 {
		t.Errorf("a failed payment must not book; server saw %d more bookings", n)
	}

	if _, err := c.PayAndBook(context.Background(), req, Payment{Method: "cash"}); err == nil {
		t.Error("expected an unknown payment method to be rejected")
	}
}
