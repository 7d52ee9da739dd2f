package notify

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"pos_sales/internal/sales"
)

const messagesPath = "/2010-04-01/Accounts/{account_sid}/Messages.json"

// MessagingConfig holds the credentials of a Twilio-compatible messaging API.
type MessagingConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// Enabled reports whether every value needed to send a message is present.
func (c MessagingConfig) Enabled() bool {
	return c.BaseURL != "" && c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

// MessagingChannel posts a plain-text sale summary to a messaging API.
type MessagingChannel struct {
	client *resty.Client
	config MessagingConfig
}

// NewMessagingChannel creates a messaging channel.
func NewMessagingChannel(config MessagingConfig) *MessagingChannel {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetBasicAuth(config.AccountSID, config.AuthToken)

	return &MessagingChannel{
		client: client,
		config: config,
	}
}

func (c *MessagingChannel) Name() string {
	return "messaging"
}

func (c *MessagingChannel) Send(ctx context.Context, sale *sales.Sale) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("account_sid", c.config.AccountSID).
		SetFormData(map[string]string{
			"From": c.config.From,
			"To":   c.config.To,
			"Body": FormatText(sale),
		}).
		Post(messagesPath)
	if err != nil {
		return fmt.Errorf("error making request to messaging API: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("messaging API returned unexpected status: %d", resp.StatusCode())
	}
	return nil
}
