package client

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	PaymentCard      = "card"
	PaymentPhonePe   = "phonepe"
	PaymentGooglePay = "googlepay"
)

// Simulated settlement times. Nothing leaves the process.
const (
	CardSettleDelay   = 1500 * time.Millisecond
	WalletSettleDelay = time.Second
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvcRe        = regexp.MustCompile(`^\d{3,4}$`)
)

type Card struct {
	Name   string
	Number string
	Expiry string // MM/YY
	CVC    string
}

// CardError names the first card field that failed validation.
type CardError struct {
	Field   string
	Message string
}

func (e *CardError) Error() string { return e.Message }

// ValidateCard checks card details locally. The card is valid through the
// last day of its expiry month.
func ValidateCard(card Card, now time.Time) error {
	if card.Name == "" || card.Number == "" || card.Expiry == "" || card.CVC == "" {
		return &CardError{Field: "card", Message: "please fill in all card details"}
	}
	if !cardNumberRe.MatchString(strings.ReplaceAll(card.Number, " ", "")) {
		return &CardError{Field: "number", Message: "please enter a valid 16-digit card number"}
	}

	m := expiryRe.FindStringSubmatch(card.Expiry)
	if m == nil {
		return &CardError{Field: "expiry", Message: "please enter a valid expiry date in MM/YY format"}
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return &CardError{Field: "expiry", Message: "please enter a valid expiry date in MM/YY format"}
	}
	expiresAt := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	if !now.Before(expiresAt) {
		return &CardError{Field: "expiry", Message: "card has expired"}
	}

	if !cvcRe.MatchString(card.CVC) {
		return &CardError{Field: "cvc", Message: "please enter a valid CVC"}
	}
	return nil
}

// Payment describes how a booking is paid. Card is required for the card
// method and ignored otherwise.
type Payment struct {
	Method string
	Card   *Card
}

// PayAndBook runs the simulated payment step and books the appointment
// with isPaid=true only once that step has succeeded.
func (c *Client) PayAndBook(ctx context.Context, req BookingRequest, p Payment) (*Appointment, error) {
	var delay time.Duration
	switch p.Method {
	case PaymentCard, "":
		if p.Card == nil {
			return nil, &CardError{Field: "card", Message: "please fill in all card details"}
		}
		if err := ValidateCard(*p.Card, c.now()); err != nil {
			return nil, err
		}
		p.Method = PaymentCard
		delay = CardSettleDelay
	case PaymentPhonePe, PaymentGooglePay:
		delay = WalletSettleDelay
	default:
		return nil, fmt.Errorf("unsupported payment method %q", p.Method)
	}

	if err := c.sleep(ctx, delay); err != nil {
		return nil, err
	}

	req.PaymentMethod = p.Method
	req.IsPaid = true
	return c.BookAppointment(ctx, req)
}
