package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"

	"pos_sales/internal/sales"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	FromEmail     string
	To            []string
	SubjectPrefix string
}

// Enabled reports whether every value needed to send mail is present.
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPPort > 0 && c.FromEmail != "" && len(c.To) > 0
}

type sendMailFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailChannel sends an HTML sale summary over SMTP.
type EmailChannel struct {
	config   EmailConfig
	sendMail sendMailFunc
}

// NewEmailChannel creates an email channel.
func NewEmailChannel(config EmailConfig) *EmailChannel {
	c := &EmailChannel{config: config}
	c.sendMail = c.deliver
	return c
}

func (c *EmailChannel) Name() string {
	return "email"
}

// Send mails the sale summary. The SMTP conversation is bound to ctx: its
// deadline applies to every read and write, and cancelling ctx closes the
// connection.
func (c *EmailChannel) Send(ctx context.Context, sale *sales.Sale) error {
	body, err := FormatHTML(sale)
	if err != nil {
		return err
	}
	message := c.buildHTMLEmail(Subject(c.config.SubjectPrefix, sale), body)

	addr := net.JoinHostPort(c.config.SMTPHost, fmt.Sprint(c.config.SMTPPort))
	var auth smtp.Auth
	if c.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", c.config.SMTPUsername, c.config.SMTPPassword, c.config.SMTPHost)
	}

	if err := c.sendMail(ctx, addr, auth, c.config.FromEmail, c.config.To, message); err != nil {
		return fmt.Errorf("failed to send email: %w", contextError(ctx, err))
	}
	return nil
}

// deliver runs one SMTP transaction over a connection owned by ctx.
func (c *EmailChannel) deliver(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, c.config.SMTPHost)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.config.SMTPHost}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := client.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := client.Auth(a); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// contextError reports ctx's error in place of the network error it caused.
func contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return context.DeadlineExceeded
	}
	return err
}

// buildHTMLEmail builds an HTML email message
func (c *EmailChannel) buildHTMLEmail(subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		c.config.FromEmail,
		strings.Join(c.config.To, ", "),
		subject,
	)

	return []byte(headers + htmlBody)
}
