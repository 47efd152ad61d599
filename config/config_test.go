package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "portfolio.db", s.DBPath)
	assert.Equal(t, "cv-resume.pdf", s.ResumePath)
	assert.Equal(t, RelayEmailJS, s.RelayProvider)
	assert.Equal(t, 5.0, s.RateLimit)
	assert.Equal(t, 2*time.Hour, s.SessionTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PORTFOLIO_DB_PATH", "/tmp/site.db")
	t.Setenv("PORTFOLIO_RELAY_PROVIDER", "LOG")
	t.Setenv("PORTFOLIO_RATE_LIMIT", "12")
	t.Setenv("PORTFOLIO_SESSION_TTL", "30m")
	t.Setenv("ADMIN_USERNAME", "artem")

	s, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, "/tmp/site.db", s.DBPath)
	assert.Equal(t, RelayLog, s.RelayProvider)
	assert.Equal(t, 12.0, s.RateLimit)
	assert.Equal(t, 30*time.Minute, s.SessionTTL)
	assert.Equal(t, "artem", s.AdminUsername)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string][2]string{
		"provider":   {"PORTFOLIO_RELAY_PROVIDER", "carrier-pigeon"},
		"rate limit": {"PORTFOLIO_RATE_LIMIT", "0"},
		"ttl":        {"PORTFOLIO_SESSION_TTL", "-1s"},
		"mode":       {"PORTFOLIO_MODE", "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}

func TestRelaySourceReadsEnvironmentEachCall(t *testing.T) {
	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_SERVICE_ID", "")
	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_TEMPLATE_ID", "")
	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_PUBLIC_KEY", "")
	t.Setenv("NEXT_PUBLIC_EMAILJS_SERVICE_ID", "")
	t.Setenv("NEXT_PUBLIC_EMAILJS_TEMPLATE_ID", "")
	t.Setenv("NEXT_PUBLIC_EMAILJS_PUBLIC_KEY", "")

	src := NewRelaySource(New())
	assert.False(t, src.RelayConfig().Complete())

	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_SERVICE_ID", "service_x")
	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_TEMPLATE_ID", "template_y")
	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_PUBLIC_KEY", "pk_z")

	cfg := src.RelayConfig()
	assert.True(t, cfg.Complete())
	assert.Equal(t, "service_x", cfg.ServiceID)
	assert.Equal(t, "template_y", cfg.TemplateID)
	assert.Equal(t, "pk_z", cfg.PublicKey)
}

func TestRelaySourceAcceptsLegacyNames(t *testing.T) {
	t.Setenv("PORTFOLIO_PUBLIC_EMAILJS_TEMPLATE_ID", "")
	t.Setenv("NEXT_PUBLIC_EMAILJS_TEMPLATE_ID", "template_legacy")

	cfg := NewRelaySource(New()).RelayConfig()
	assert.Equal(t, "template_legacy", cfg.TemplateID)
}
