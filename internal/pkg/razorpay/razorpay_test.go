package razorpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "rzp_test_secret"

func TestVerifySignature(t *testing.T) {
	sig := Sign(testSecret, "order_123", "pay_456")

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, VerifySignature(testSecret, "order_123", "pay_456", sig))
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		assert.NoError(t, VerifySignature(testSecret, "order_123", "pay_456", "  "+sig+" "))
	})

	t.Run("tampered signature", func(t *testing.T) {
		tampered := "0" + sig[1:]
		if tampered == sig {
			tampered = "1" + sig[1:]
		}
		assert.ErrorIs(t, VerifySignature(testSecret, "order_123", "pay_456", tampered), ErrInvalidSignature)
	})

	t.Run("swapped ids", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature(testSecret, "pay_456", "order_123", sig), ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature("other", "order_123", "pay_456", sig), ErrInvalidSignature)
	})

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature(testSecret, "order_123", "pay_456", ""), ErrInvalidSignature)
	})
}

func TestSign_KnownVector(t *testing.T) {
	assert.Len(t, Sign("secret", "order_abc", "pay_xyz"), 64)
	assert.Equal(t, Sign("secret", "order_abc", "pay_xyz"), Sign("secret", "order_abc", "pay_xyz"))
	assert.NotEqual(t, Sign("secret", "order_abc", "pay_xyz"), Sign("secret", "order_abc", "pay_xy"))
}

func TestClient_VerifyUsesKeySecret(t *testing.T) {
	c := NewClient("rzp_test_key", testSecret)
	assert.Equal(t, "rzp_test_key", c.KeyID())
	assert.NoError(t, c.VerifySignature("o", "p", Sign(testSecret, "o", "p")))
}

func TestOrderFromBody(t *testing.T) {
	req := OrderRequest{Amount: 9900, Currency: "INR", Receipt: "receipt_1"}

	order, err := orderFromBody(map[string]interface{}{"id": "order_X", "amount": float64(9900), "currency": "INR"}, req)
	require.NoError(t, err)
	assert.Equal(t, "order_X", order.ID)
	assert.Equal(t, int64(9900), order.Amount)
	assert.Equal(t, "receipt_1", order.Receipt)

	_, err = orderFromBody(map[string]interface{}{}, req)
	assert.Error(t, err)
}
