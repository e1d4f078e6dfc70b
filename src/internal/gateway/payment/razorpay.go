package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"kotidham-service/src/pkg/log"

	"github.com/razorpay/razorpay-go"
)

var (
	ErrOrderCreationFailed = errors.New("failed to create gateway order")
	ErrRefundFailed        = errors.New("failed to refund payment")
)

type Config struct {
	KeyID     string
	KeySecret string
}

// GatewayOrder is the remote order checkout pays against.
type GatewayOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
	Status      string
}

// api is the slice of the razorpay SDK the adapter calls.
type api interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
	Refund(paymentID string, amount int, data map[string]interface{}) (map[string]interface{}, error)
}

type sdk struct {
	client *razorpay.Client
}

func (s sdk) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return s.client.Order.Create(data, nil)
}

func (s sdk) Refund(paymentID string, amount int, data map[string]interface{}) (map[string]interface{}, error) {
	return s.client.Payment.Refund(paymentID, amount, data, nil)
}

type Razorpay struct {
	api       api
	keyID     string
	keySecret string
	log       log.Log
}

func NewRazorpay(cfg Config, log log.Log) *Razorpay {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		log.Error("razorpay", "razorpay credentials are not configured", "NewRazorpay", "")
	}
	return &Razorpay{
		api:       sdk{client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret)},
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		log:       log,
	}
}

func (r *Razorpay) KeyID() string {
	return r.keyID
}

func (r *Razorpay) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return GatewayOrder{}, err
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		n := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			n[k] = v
		}
		data["notes"] = n
	}

	order, err := r.api.CreateOrder(data)
	if err != nil {
		r.log.Error("razorpay", "failed to create order", "CreateOrder", err.Error())
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	id, _ := order["id"].(string)
	if id == "" {
		return GatewayOrder{}, fmt.Errorf("%w: response has no order id", ErrOrderCreationFailed)
	}
	status, _ := order["status"].(string)

	r.log.Info("razorpay", "gateway order created", "CreateOrder", id)
	return GatewayOrder{
		ID:          id,
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     receipt,
		Status:      status,
	}, nil
}

// VerifySignature checks the checkout callback: HMAC-SHA256 of "order_id|payment_id" keyed by the secret.
func (r *Razorpay) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return VerifySignature(r.keySecret, gatewayOrderID, gatewayPaymentID, signature)
}

func VerifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, gatewayOrderID, gatewayPaymentID)), []byte(signature))
}

func Sign(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (r *Razorpay) Refund(ctx context.Context, gatewayPaymentID string, amountMinor int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	refund, err := r.api.Refund(gatewayPaymentID, int(amountMinor), nil)
	if err != nil {
		r.log.Error("razorpay", "failed to refund payment", "Refund", err.Error())
		return "", fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}

	id, _ := refund["id"].(string)
	if id == "" {
		return "", fmt.Errorf("%w: response has no refund id", ErrRefundFailed)
	}
	return id, nil
}
