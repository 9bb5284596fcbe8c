package mailer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func captureMessages(t *testing.T) *[]*gomail.Message {
	t.Helper()
	var sent []*gomail.Message
	orig := dialAndSend
	dialAndSend = func(d *gomail.Dialer, m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}
	t.Cleanup(func() { dialAndSend = orig })
	return &sent
}

func TestSMTPMailer_SendVerificationCode(t *testing.T) {
	sent := captureMessages(t)
	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "noreply@example.com", "TechSavvy Store")

	err := m.SendVerificationCode("alice@example.com", "Alice Smith", "1234", 150*time.Second)
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	msg := (*sent)[0]
	assert.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"[TechSavvy Store] Verify Your Email Address"}, msg.GetHeader("Subject"))

	var body strings.Builder
	_, err = msg.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "1234")
	assert.Contains(t, body.String(), "2.5 minutes")
}

func TestSMTPMailer_SendPasswordResetCode(t *testing.T) {
	sent := captureMessages(t)
	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "noreply@example.com", "TechSavvy Store")

	err := m.SendPasswordResetCode("bob@example.com", "Bob", "9876", 45*time.Second)
	require.NoError(t, err)
	require.Len(t, *sent, 1)
	assert.Equal(t, []string{"[TechSavvy Store] Reset Your Password"}, (*sent)[0].GetHeader("Subject"))

	var body strings.Builder
	_, err = (*sent)[0].WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "9876")
	assert.Contains(t, body.String(), "45 seconds")
}

func TestSMTPMailer_SendWelcome(t *testing.T) {
	sent := captureMessages(t)
	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "noreply@example.com", "TechSavvy Store")

	err := m.SendWelcome("carol@example.com", "Carol")
	require.NoError(t, err)
	require.Len(t, *sent, 1)
	assert.Equal(t, []string{"[TechSavvy Store] Welcome!"}, (*sent)[0].GetHeader("Subject"))
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	orig := dialAndSend
	dialAndSend = func(d *gomail.Dialer, m *gomail.Message) error {
		return errors.New("connection refused")
	}
	defer func() { dialAndSend = orig }()

	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "noreply@example.com", "TechSavvy Store")
	err := m.SendVerificationCode("alice@example.com", "Alice", "1234", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice@example.com")
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "45 seconds", formatExpiry(45*time.Second))
	assert.Equal(t, "2.5 minutes", formatExpiry(150*time.Second))
	assert.Equal(t, "30.0 minutes", formatExpiry(30*time.Minute))
}
