// Package relay holds the contact.Relay implementations the site can deliver
// contact messages through.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Artem18071998/portfolio/contact"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// StatusError is a non-2xx answer from the relay service.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay responded %d: %s", e.Code, e.Text)
}

// EmailJS sends contact messages through the EmailJS REST API. The service,
// template and public key come with each call; only the optional private
// access token is fixed at construction.
type EmailJS struct {
	Endpoint    string
	AccessToken string
	Client      *http.Client
}

func NewEmailJS(endpoint, accessToken string) *EmailJS {
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	return &EmailJS{
		Endpoint:    endpoint,
		AccessToken: accessToken,
		Client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *EmailJS) Send(ctx context.Context, cfg contact.Config, fields contact.Fields) error {
	payload, err := json.Marshal(emailJSRequest{
		ServiceID:   cfg.ServiceID,
		TemplateID:  cfg.TemplateID,
		UserID:      cfg.PublicKey,
		AccessToken: e.AccessToken,
		TemplateParams: map[string]string{
			"name":    fields.Name,
			"email":   fields.Email,
			"message": fields.Message,
		},
	})
	if err != nil {
		return fmt.Errorf("encoding emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("calling emailjs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return fmt.Errorf("reading emailjs response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Text: strings.TrimSpace(string(body))}
	}
	return nil
}
