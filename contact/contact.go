// Package contact implements the contact form's submission flow: it checks
// the relay configuration, hands the entered fields to an email relay and
// tracks the result state of one visitor's form.
package contact

import (
	"context"
	"strings"
)

// Fields are the values a visitor entered into the contact form.
type Fields struct {
	Name    string `form:"name" json:"name" binding:"required"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Message string `form:"message" json:"message" binding:"required"`
}

func (f Fields) Empty() bool {
	return f.Name == "" && f.Email == "" && f.Message == ""
}

// Config identifies the relay account a submission is delivered through.
type Config struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Complete reports whether every value is set.
func (c Config) Complete() bool {
	return len(c.Missing()) == 0
}

// Missing names the unset values, for diagnostics.
func (c Config) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.ServiceID) == "" {
		missing = append(missing, "service_id")
	}
	if strings.TrimSpace(c.TemplateID) == "" {
		missing = append(missing, "template_id")
	}
	if strings.TrimSpace(c.PublicKey) == "" {
		missing = append(missing, "public_key")
	}
	return missing
}

// ConfigSource resolves the relay configuration. It is consulted on every
// submission attempt.
type ConfigSource interface {
	RelayConfig() Config
}

// ConfigFunc adapts a function to ConfigSource.
type ConfigFunc func() Config

func (f ConfigFunc) RelayConfig() Config { return f() }

// Relay delivers one submission. Implementations own any retry or timeout
// behavior; the form treats them as a black box.
type Relay interface {
	Send(ctx context.Context, cfg Config, fields Fields) error
}

// RelayFunc adapts a function to Relay.
type RelayFunc func(ctx context.Context, cfg Config, fields Fields) error

func (f RelayFunc) Send(ctx context.Context, cfg Config, fields Fields) error {
	return f(ctx, cfg, fields)
}
