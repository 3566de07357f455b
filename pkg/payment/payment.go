// Package payment is the payment-session collaborator, kept behind a narrow
// interface so the booking use case never touches provider specifics.
package payment

import "context"

// CheckoutInput describes what the session is sold for and where the
// provider should send the customer afterwards.
type CheckoutInput struct {
	Reference     string // client reference, the tour id
	CustomerEmail string
	Name          string
	Description   string
	ImageURL      string
	AmountCents   int64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// Session is the provider-hosted checkout the client gets redirected to.
type Session struct {
	ID  string
	URL string
}

// Provider creates hosted checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, in CheckoutInput) (*Session, error)
}
