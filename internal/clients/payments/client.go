package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/yungbote/whisperback-backend/internal/pkg/envutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

// EventCheckoutCompleted is the only event type the fulfillment side acts on.
const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutParams struct {
	WhisperID string
	// Origin of the storefront; success/cancel URLs are built against it.
	Origin string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is the normalized, already-verified webhook payload. Fields other
// than Type are only populated for completed checkouts.
type Event struct {
	Type          string
	SessionID     string
	WhisperID     string
	CustomerEmail string
}

// Client is the payment backend used for checkout and fulfillment.
// Signature verification is delegated to the provider's library; no
// crypto lives in this repository.
type Client interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error)
	VerifyEvent(payload []byte, sigHeader string) (Event, error)
}

type client struct {
	log           *logger.Logger
	api           *stripeclient.API
	webhookSecret string
	priceCents    int64
	productName   string
	productDesc   string
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	secretKey := strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	if secretKey == "" {
		return nil, fmt.Errorf("missing STRIPE_SECRET_KEY")
	}
	webhookSecret := strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if webhookSecret == "" {
		return nil, fmt.Errorf("missing STRIPE_WEBHOOK_SECRET")
	}

	api := &stripeclient.API{}
	api.Init(secretKey, nil)

	return &client{
		log:           log.With("service", "PaymentsClient"),
		api:           api,
		webhookSecret: webhookSecret,
		priceCents:    envutil.Int64("CHECKOUT_PRICE_CENTS", 299),
		productName:   "WhisperBack - Keep Forever",
		productDesc:   "Download your personalized audio message and shareable link",
	}, nil
}

func (c *client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	origin := strings.TrimRight(strings.TrimSpace(p.Origin), "/")

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(c.productName),
						Description: stripe.String(c.productDesc),
					},
					UnitAmount: stripe.Int64(c.priceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(origin + "/success?session_id={CHECKOUT_SESSION_ID}&whisper_id=" + p.WhisperID),
		CancelURL:  stripe.String(origin + "/?canceled=true"),
	}
	params.Context = ctx
	params.AddMetadata("whisperId", p.WhisperID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *client) VerifyEvent(payload []byte, sigHeader string) (Event, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("construct event: %w", err)
	}

	out := Event{Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return Event{}, fmt.Errorf("decode checkout session: %w", err)
	}

	out.SessionID = sess.ID
	out.WhisperID = sess.Metadata["whisperId"]
	if sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	return out, nil
}
