package payment

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/trekora/trekora/pkg/apperr"
)

// StripeProvider implements Provider on Stripe Checkout.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateSession(ctx context.Context, in CheckoutInput) (*Session, error) {
	currency := in.Currency
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		CustomerEmail:     stripe.String(in.CustomerEmail),
		ClientReferenceID: stripe.String(in.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(in.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(in.Name),
					Description: stripe.String(in.Description),
					Images:      imageList(in.ImageURL),
				},
			},
		}},
	}
	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "payment provider rejected checkout session", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func imageList(url string) []*string {
	if url == "" {
		return nil
	}
	return []*string{stripe.String(url)}
}

var _ Provider = (*StripeProvider)(nil)
