package mailer

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"techsavvy.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production")
	os.Exit(m.Run())
}

func TestLogMailer_NeverFails(t *testing.T) {
	l := NewLogMailer()

	assert.NoError(t, l.SendVerificationCode("alice@example.com", "Alice", "1234", time.Minute))
	assert.NoError(t, l.SendPasswordResetCode("alice@example.com", "Alice", "5678", time.Minute))
	assert.NoError(t, l.SendWelcome("alice@example.com", "Alice"))
}
