package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	t.Setenv("AI_API_KEY", "test-key")
	t.Setenv("SMTP_USER", "author@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.AIProvider)
	require.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	require.Equal(t, 465, cfg.SMTPPort)
	require.Equal(t, "topic_state.json", cfg.StatePath)
	require.Equal(t, "publish_log.jsonl", cfg.RunLogPath)
	require.Equal(t, "author@example.com", cfg.FromAddress, "from defaults to the SMTP user")
}

func TestValidateGeneration_MissingKey(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidateGeneration()
	require.ErrorIs(t, err, ErrMissingConfig)
}

func TestValidateDelivery_ListsAllMissing(t *testing.T) {
	os.Clearenv()
	t.Setenv("SMTP_USER", "author@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidateDelivery()
	require.ErrorIs(t, err, ErrMissingConfig)
	require.Contains(t, err.Error(), "SMTP_PASSWORD")
	require.Contains(t, err.Error(), "POST_EMAIL_ADDRESS")
	require.NotContains(t, err.Error(), "SMTP_USER")
}

func TestValidateDelivery_Complete(t *testing.T) {
	os.Clearenv()
	t.Setenv("SMTP_USER", "author@example.com")
	t.Setenv("SMTP_PASSWORD", "app-password")
	t.Setenv("POST_EMAIL_ADDRESS", "publish-abc123@example.wordpress.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateDelivery())
}
