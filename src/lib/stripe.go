package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateDepositIntent opens a card payment for a reservation deposit.
// Amount is in the currency's smallest unit.
func CreateDepositIntent(amount int64, currency string, reservationId string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("reservation_id", reservationId)
	return sc.V1PaymentIntents.Create(context.Background(), &params)
}
