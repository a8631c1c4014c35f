// Package mailer delivers verification codes through an EmailJS-style
// template-send HTTP API. The code travels only inside the request body;
// it is never logged here or anywhere else.
package mailer

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

const defaultBaseURL = "https://api.emailjs.com"

// Client sends templated email through the provider.
type Client struct {
	httpClient *resty.Client
	serviceID  string
	templateID string
	publicKey  string
}

// Config identifies the provider account and template.
type Config struct {
	BaseURL    string // empty means the hosted provider endpoint
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// NewClient builds a mail client for the given provider account.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	ToEmail string `json:"to_email"`
	ToName  string `json:"to_name"`
	Code    string `json:"code"`
}

// SendCode mails a verification code to the recipient.
func (c *Client) SendCode(ctx context.Context, toEmail, toName, code string) error {
	body := sendRequest{
		ServiceID:  c.serviceID,
		TemplateID: c.templateID,
		UserID:     c.publicKey,
		TemplateParams: templateParams{
			ToEmail: toEmail,
			ToName:  toName,
			Code:    code,
		},
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/v1.0/email/send")
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("mail send error %d: %s", response.StatusCode(), response.String())
	}
	return nil
}
