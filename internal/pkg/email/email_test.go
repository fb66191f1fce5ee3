package email

import (
	"bytes"
	"errors"
	"io"
	"mime/quotedprintable"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/qs3c/repurpose_server/config"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	// 正文默认 quoted-printable 编码，长行会被折行
	decoded, err := io.ReadAll(quotedprintable.NewReader(&buf))
	require.NoError(t, err)
	return string(decoded)
}

func testConfig() *config.EmailConfig {
	return &config.EmailConfig{SMTPHost: "smtp.test", SMTPPort: 465, From: "noreply@test.dev"}
}

func TestService_SendWelcome(t *testing.T) {
	sender := &fakeSender{}
	svc := NewServiceWithSender(testConfig(), sender)

	require.NoError(t, svc.SendWelcome("jane@example.com", "Jane <admin>"))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"jane@example.com"}, m.GetHeader("To"))
	assert.Contains(t, m.GetHeader("Subject")[0], "Welcome")

	raw := render(t, m)
	assert.Contains(t, raw, "Jane &lt;admin&gt;")
	assert.NotContains(t, raw, "<admin>")
}

func TestService_SendPaymentReceipt(t *testing.T) {
	sender := &fakeSender{}
	svc := NewServiceWithSender(testConfig(), sender)

	require.NoError(t, svc.SendPaymentReceipt("jane@example.com", "Jane", "order_123", 9900, "inr", 10))
	require.Len(t, sender.sent, 1)

	raw := render(t, sender.sent[0])
	assert.Contains(t, raw, "INR 99.00")
	assert.Contains(t, raw, "10 credits")
	assert.Contains(t, raw, "order_123")
}

func TestService_SendError(t *testing.T) {
	svc := NewServiceWithSender(testConfig(), &fakeSender{err: errors.New("connection refused")})

	err := svc.SendWelcome("jane@example.com", "Jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jane@example.com")
}

func TestService_Enabled(t *testing.T) {
	assert.True(t, NewService(testConfig()).Enabled())
	assert.False(t, NewService(&config.EmailConfig{}).Enabled())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "INR 99.00", FormatAmount(9900, "INR"))
	assert.Equal(t, "USD 0.05", FormatAmount(5, "usd"))
	assert.Equal(t, "INR 1234.50", FormatAmount(123450, "INR"))
}
