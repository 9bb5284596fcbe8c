package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches account emails. The verification core only hands it a
// destination and a code; delivery is the transport's problem.
type Mailer interface {
	SendVerificationCode(email, name, code string, expiry time.Duration) error
	SendPasswordResetCode(email, name, code string, expiry time.Duration) error
	SendWelcome(email, name string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	from        string
	companyName string
}

var dialAndSend = func(d *gomail.Dialer, m *gomail.Message) error {
	return d.DialAndSend(m)
}

// NewSMTPMailer creates a mailer for the given SMTP relay.
func NewSMTPMailer(host string, port int, username, password, from, companyName string) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(host, port, username, password),
		from:        from,
		companyName: companyName,
	}
}

// SendVerificationCode emails the account verification code.
func (s *SMTPMailer) SendVerificationCode(email, name, code string, expiry time.Duration) error {
	body := fmt.Sprintf(`
		<h2>Verify your email address</h2>
		<p>Hi %s,</p>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>The code expires in %s.</p>
		<p>If you did not create an account, you can ignore this email.</p>
	`, name, code, formatExpiry(expiry))
	return s.send(email, "Verify Your Email Address", body)
}

// SendPasswordResetCode emails the password reset code.
func (s *SMTPMailer) SendPasswordResetCode(email, name, code string, expiry time.Duration) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Hi %s,</p>
		<p>Your password reset code is: <strong>%s</strong></p>
		<p>The code expires in %s.</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, name, code, formatExpiry(expiry))
	return s.send(email, "Reset Your Password", body)
}

// SendWelcome emails the post-verification welcome message.
func (s *SMTPMailer) SendWelcome(email, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to %s, %s!</h2>
		<p>Your email has been verified and your account is ready.</p>
	`, s.companyName, name)
	return s.send(email, "Welcome!", body)
}

func (s *SMTPMailer) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s", s.companyName, subject))
	m.SetBody("text/html", htmlBody)

	if err := dialAndSend(s.dialer, m); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, to, err)
	}
	return nil
}

func formatExpiry(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	return fmt.Sprintf("%.1f minutes", d.Minutes())
}
