// Package mailer отправляет письма дайджеста.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

var ErrNoAPIKey = errors.New("resend api key is not set")

// Resend отправляет письма через Resend API
type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(httpClient *http.Client, apiKey, from string) (*Resend, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	return &Resend{
		client: resend.NewCustomClient(httpClient, apiKey),
		from:   from,
	}, nil
}

func (r *Resend) Send(ctx context.Context, to, subject, html string) error {
	resp, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	if resp == nil || resp.Id == "" {
		return fmt.Errorf("send email to %s: empty message id", to)
	}

	return nil
}
