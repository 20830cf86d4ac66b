package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/telemetry"
)

// RazorpayGateway implements PaymentGateway using Razorpay Orders
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

// RazorpayConfig holds Razorpay credentials
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// NewRazorpayGateway creates a new Razorpay gateway
func NewRazorpayGateway(config *RazorpayConfig) (*RazorpayGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("razorpay config is required")
	}
	if config.KeyID == "" || config.KeySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}

	return &RazorpayGateway{
		client: razorpay.NewClient(config.KeyID, config.KeySecret),
		keyID:  config.KeyID,
		secret: config.KeySecret,
	}, nil
}

// Name returns the gateway identifier
func (g *RazorpayGateway) Name() string {
	return "razorpay"
}

// KeyID returns the public key the checkout widget needs
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder opens a Razorpay order for the checkout amount
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "gateway.razorpay.create_order")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("amount_paise", req.AmountPaise),
		attribute.String("currency", req.Currency),
		attribute.String("receipt", req.Receipt),
	)

	data := map[string]interface{}{
		"amount":   req.AmountPaise,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		err := fmt.Errorf("razorpay order response missing id")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order_id", orderID))
	span.SetStatus(codes.Ok, "")

	return &Order{
		ID:          orderID,
		AmountPaise: req.AmountPaise,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
	}, nil
}

// VerifySignature checks the checkout callback against the key secret.
// Razorpay signs "<order_id>|<payment_id>" with HMAC-SHA256 and sends
// the hex digest.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(g.secret, orderID, paymentID, signature)
}

func verifyHMAC(secret, orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
