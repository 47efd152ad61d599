// Package config reads the site's settings from flags, the environment and
// an optional .env file.
//
// Server settings are read once at startup. The three relay values are
// resolved again on every contact submission so a changed environment takes
// effect without a restart.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Artem18071998/portfolio/contact"
)

const EnvPrefix = "PORTFOLIO"

const (
	RelayEmailJS = "emailjs"
	RelayLog     = "log"
)

// Settings are the server settings resolved at startup.
type Settings struct {
	Port        string
	Mode        string
	DBPath      string
	ContentFile string
	ResumePath  string
	ImagesDir   string

	// RateLimit is the number of contact submissions accepted per minute per IP.
	RateLimit float64

	SessionTTL time.Duration

	RelayProvider  string
	EmailJSKey     string
	EmailJSBaseURL string

	AdminUsername string
	AdminPassword string
}

// New returns a viper instance with defaults and environment bindings
// installed.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("mode", "debug")
	v.SetDefault("db_path", "portfolio.db")
	v.SetDefault("content_file", "")
	v.SetDefault("resume_path", "cv-resume.pdf")
	v.SetDefault("images_dir", "images")
	v.SetDefault("rate_limit", 5)
	v.SetDefault("session_ttl", 2*time.Hour)
	v.SetDefault("relay.provider", RelayEmailJS)
	v.SetDefault("emailjs.private_key", "")
	v.SetDefault("emailjs.endpoint", "")

	// Unprefixed names kept from the original deployment.
	_ = v.BindEnv("port", "PORTFOLIO_PORT", "PORT")
	_ = v.BindEnv("mode", "PORTFOLIO_MODE", "GIN_MODE")
	_ = v.BindEnv("admin.username", "ADMIN_USERNAME")
	_ = v.BindEnv("admin.password", "ADMIN_PASSWORD")

	// Relay values are client-exposed, hence the PUBLIC marker.
	_ = v.BindEnv("emailjs.service_id", "PORTFOLIO_PUBLIC_EMAILJS_SERVICE_ID", "NEXT_PUBLIC_EMAILJS_SERVICE_ID")
	_ = v.BindEnv("emailjs.template_id", "PORTFOLIO_PUBLIC_EMAILJS_TEMPLATE_ID", "NEXT_PUBLIC_EMAILJS_TEMPLATE_ID")
	_ = v.BindEnv("emailjs.public_key", "PORTFOLIO_PUBLIC_EMAILJS_PUBLIC_KEY", "NEXT_PUBLIC_EMAILJS_PUBLIC_KEY")

	return v
}

// Load resolves the server settings.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Port:           v.GetString("port"),
		Mode:           v.GetString("mode"),
		DBPath:         v.GetString("db_path"),
		ContentFile:    v.GetString("content_file"),
		ResumePath:     v.GetString("resume_path"),
		ImagesDir:      v.GetString("images_dir"),
		RateLimit:      v.GetFloat64("rate_limit"),
		SessionTTL:     v.GetDuration("session_ttl"),
		RelayProvider:  strings.ToLower(v.GetString("relay.provider")),
		EmailJSKey:     v.GetString("emailjs.private_key"),
		EmailJSBaseURL: v.GetString("emailjs.endpoint"),
		AdminUsername:  v.GetString("admin.username"),
		AdminPassword:  v.GetString("admin.password"),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.Port == "" {
		return fmt.Errorf("config: port must not be empty")
	}
	switch s.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: unknown mode %q", s.Mode)
	}
	switch s.RelayProvider {
	case RelayEmailJS, RelayLog:
	default:
		return fmt.Errorf("config: unknown relay provider %q", s.RelayProvider)
	}
	if s.RateLimit <= 0 {
		return fmt.Errorf("config: rate_limit must be positive, got %v", s.RateLimit)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive, got %v", s.SessionTTL)
	}
	return nil
}

// RelaySource resolves the relay configuration from v on each call.
type RelaySource struct {
	v *viper.Viper
}

func NewRelaySource(v *viper.Viper) *RelaySource {
	return &RelaySource{v: v}
}

func (r *RelaySource) RelayConfig() contact.Config {
	return contact.Config{
		ServiceID:  r.v.GetString("emailjs.service_id"),
		TemplateID: r.v.GetString("emailjs.template_id"),
		PublicKey:  r.v.GetString("emailjs.public_key"),
	}
}
