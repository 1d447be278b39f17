package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"actas/internal/meeting"
	"actas/internal/services"
)

const defaultTimeout = 30 * time.Second

// Config captures SMTP delivery settings.
type Config struct {
	Enabled        bool
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	TimeoutSeconds int
}

// Message is one outbound acta delivery.
type Message struct {
	Recipients     []meeting.Recipient
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Client sends acta emails over SMTP.
type Client struct {
	cfg Config
}

// NewClient constructs a mail client from configuration.
func NewClient(cfg Config) *Client {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.From = strings.TrimSpace(cfg.From)
	return &Client{cfg: cfg}
}

// Send delivers one message to every recipient. Each recipient receives an
// individual email so one bad address does not leak the rest of the list.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Enabled {
		return services.Wrap(services.ErrConfiguration, "mailer", "send", "email delivery is not enabled", nil)
	}
	if c.cfg.Host == "" || c.cfg.From == "" {
		return services.Wrap(services.ErrConfiguration, "mailer", "send", "smtp host and from address required", nil)
	}
	if len(msg.Recipients) == 0 {
		return services.Wrap(services.ErrValidation, "mailer", "send", "at least one recipient required", nil)
	}

	client, err := c.newSMTPClient()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "mailer", "send", "smtp client", err)
	}

	messages, err := c.buildMessages(msg)
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, messages...); err != nil {
		return services.Wrap(services.ErrExternal, "mailer", "send", "smtp delivery", err)
	}
	return nil
}

func (c *Client) buildMessages(msg Message) ([]*mail.Msg, error) {
	messages := make([]*mail.Msg, 0, len(msg.Recipients))
	for _, recipient := range msg.Recipients {
		m := mail.NewMsg()
		if err := m.From(c.cfg.From); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "mailer", "send", "from address", err)
		}
		if err := m.AddToFormat(recipient.Name, recipient.Email); err != nil {
			return nil, services.Wrap(services.ErrValidation, "mailer", "send",
				fmt.Sprintf("recipient %s", recipient.Email), err)
		}
		m.Subject(msg.Subject)
		m.SetBodyString(mail.TypeTextPlain, msg.Body)
		if msg.AttachmentName != "" && len(msg.Attachment) > 0 {
			if err := m.AttachReader(msg.AttachmentName, bytes.NewReader(msg.Attachment)); err != nil {
				return nil, services.Wrap(services.ErrValidation, "mailer", "send",
					fmt.Sprintf("attachment %s", msg.AttachmentName), err)
			}
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (c *Client) newSMTPClient() (*mail.Client, error) {
	timeout := defaultTimeout
	if c.cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(c.cfg.TimeoutSeconds) * time.Second
	}
	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithTimeout(timeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
		)
	}
	return mail.NewClient(c.cfg.Host, opts...)
}
