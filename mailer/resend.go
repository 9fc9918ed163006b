// Package mailer submits transactional email to the Resend API.
package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Message is a single HTML email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender accepts or rejects a message synchronously. Delivery is not tracked.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type ResendClient struct {
	client *resend.Client
}

func NewResendClient(apiKey string) *ResendClient {
	return &ResendClient{client: resend.NewClient(apiKey)}
}

// newResendClientWithBaseURL points the SDK at baseURL instead of the hosted API.
func newResendClientWithBaseURL(apiKey string, httpClient *http.Client, baseURL string) (*ResendClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse resend base url: %w", err)
	}
	client := resend.NewCustomClient(httpClient, apiKey)
	client.BaseURL = u
	return &ResendClient{client: client}, nil
}

// Send submits msg and returns the provider's message id.
func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	return sent.Id, nil
}
