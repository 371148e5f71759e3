// internal/services/escrow_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/Patty240/nanotrade/internal/config"
)

// NoopSettler is the default settlement backend: it accepts every
// transfer without moving funds, leaving settlement to an external
// mechanism. Deployments that want real escrow enable the Stripe backend
// via SETTLEMENT_ENABLED.
type NoopSettler struct{}

func (NoopSettler) Settle(buyer, seller uuid.UUID, amount int64) error {
	return nil
}

// StripeSettler settles accepted bids through Stripe PaymentIntents. The
// engine calls Settle before committing the ownership transfer, so a
// failure here leaves the auction open.
type StripeSettler struct {
	config *config.Config
}

func NewStripeSettler(config *config.Config) *StripeSettler {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &StripeSettler{
		config: config,
	}
}

func (s *StripeSettler) Settle(buyer, seller uuid.UUID, amount int64) error {
	// Ledger amounts are already in minor units.
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("buyer_id", buyer.String())
	params.AddMetadata("seller_id", seller.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return fmt.Errorf("failed to create payment intent: %w", err)
	}

	if pi.Status == stripe.PaymentIntentStatusCanceled {
		return fmt.Errorf("payment intent %s was canceled", pi.ID)
	}

	return nil
}
