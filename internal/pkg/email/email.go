package email

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/qs3c/repurpose_server/config"
)

const productName = "ContentRepurpose.ai"

// Sender gomail.Dialer 满足该接口，测试时可替换
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Service struct {
	cfg    *config.EmailConfig
	sender Sender
}

func NewService(cfg *config.EmailConfig) *Service {
	return NewServiceWithSender(cfg, gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password))
}

func NewServiceWithSender(cfg *config.EmailConfig, sender Sender) *Service {
	return &Service{cfg: cfg, sender: sender}
}

// Enabled 是否配置了 SMTP
func (s *Service) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.From != ""
}

// SendWelcome 发送欢迎邮件
func (s *Service) SendWelcome(to, name string) error {
	subject := "Welcome to " + productName
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Welcome aboard!</h2>
        <p>Hi %s,</p>
        <p>Thanks for signing up. Your account comes with free credits to get started.</p>
        <p>Paste a YouTube video or blog URL and we will turn it into posts for Twitter, LinkedIn, Instagram, Facebook and email.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, html.EscapeString(name))

	return s.sendHTML(to, subject, body)
}

// SendPaymentReceipt 发送支付成功回执
func (s *Service) SendPaymentReceipt(to, name, orderID string, amount int64, currency string, credits int) error {
	subject := "Payment received - " + productName
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Thank you for your purchase</h2>
        <p>Hi %s,</p>
        <p>We received your payment of <strong>%s</strong>. <strong>%d credits</strong> have been added to your account.</p>
        <p style="background-color: #f3f4f6; padding: 10px; word-break: break-all;">Order: %s</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, html.EscapeString(name), FormatAmount(amount, currency), credits, html.EscapeString(orderID))

	return s.sendHTML(to, subject, body)
}

// FormatAmount 最小货币单位转为展示金额，如 9900 INR -> INR 99.00
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", strings.ToUpper(currency), amount/100, amount%100)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.From, productName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
