// Package razorpay opens checkout orders and verifies payment signatures.
package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	rzp "github.com/razorpay/razorpay-go"
)

// ErrInvalidSignature is returned when a checkout signature does not match.
var ErrInvalidSignature = errors.New("invalid payment signature")

// Order is the subset of a gateway order the service persists.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// OrderRequest describes a new checkout order.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Gateway is the payment gateway capability used by the payment service.
type Gateway interface {
	CreateOrder(req OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	KeyID() string
}

// Client talks to Razorpay through the official SDK.
type Client struct {
	keyID     string
	keySecret string
	sdk       *rzp.Client
}

// NewClient creates a Razorpay client.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		sdk:       rzp.NewClient(keyID, keySecret),
	}
}

// KeyID is the public key the browser checkout needs.
func (c *Client) KeyID() string { return c.keyID }

// CreateOrder opens an order for req.Amount minor units.
func (c *Client) CreateOrder(req OrderRequest) (*Order, error) {
	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	body, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	return orderFromBody(body, req)
}

func orderFromBody(body map[string]interface{}, req OrderRequest) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay create order: response has no id")
	}
	order := &Order{ID: id, Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok && currency != "" {
		order.Currency = currency
	}
	return order, nil
}

// VerifySignature checks HMAC-SHA256(orderID|paymentID) against signature.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	return VerifySignature(c.keySecret, orderID, paymentID, signature)
}

// Sign returns the hex HMAC-SHA256 of "orderID|paymentID".
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) error {
	expected := Sign(secret, orderID, paymentID)
	got := strings.ToLower(strings.TrimSpace(signature))
	if !hmac.Equal([]byte(expected), []byte(got)) {
		return ErrInvalidSignature
	}
	return nil
}
