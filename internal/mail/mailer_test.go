package mail

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevMailer(t *testing.T) {
	t.Run("Success_NeverFails", func(t *testing.T) {
		mailer := NewDevMailer("https://app.example.com", slog.New(slog.NewTextHandler(io.Discard, nil)))
		err := mailer.SendPasswordSetup(context.Background(), "john.doe@example.com", "John Doe", "token-123")
		assert.NoError(t, err)
	})
}

func TestPasswordSetupLink(t *testing.T) {
	link := passwordSetupLink("https://app.example.com", "abc")
	assert.Equal(t, "https://app.example.com/password/setup?token=abc", link)
}
