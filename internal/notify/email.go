package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/novaasia/ordering-service/internal/config"
	"github.com/novaasia/ordering-service/internal/order"
)

// EmailChannel mails the order summary to the operator and, when the customer
// left an address, a confirmation copy to the customer.
type EmailChannel struct {
	send      func(...*gomail.Message) error
	from      string
	operator  string
	storeName string
}

func NewEmailChannel(cfg config.SMTPConfig, storeName string) *EmailChannel {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailChannel{
		send:      dialer.DialAndSend,
		from:      cfg.From,
		operator:  cfg.OperatorEmail,
		storeName: storeName,
	}
}

func (e *EmailChannel) Name() string {
	return "email"
}

func (e *EmailChannel) Send(ctx context.Context, o *order.Order, text string) error {
	messages := []*gomail.Message{
		e.message(e.operator, fmt.Sprintf("%s - Nieuwe bestelling", e.storeName), text, false),
	}
	if o.Email != "" {
		messages = append(messages,
			e.message(o.Email, fmt.Sprintf("%s - Bevestiging van je bestelling", e.storeName), text, true))
	}

	// DialAndSend carries no context of its own; a wedged SMTP server must not
	// hold the call past the dispatcher's per-channel deadline.
	errCh := make(chan error, 1)
	go func() { errCh <- e.send(messages...) }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("email: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("email: failed to send: %w", err)
		}
		return nil
	}
}

func (e *EmailChannel) message(to, subject, text string, asHTML bool) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.from, e.storeName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if asHTML {
		// The summary carries customer input (name, remark, item names); escape
		// it before it becomes markup.
		m.SetBody("text/html", strings.ReplaceAll(html.EscapeString(text), "\n", "<br>"))
	} else {
		m.SetBody("text/plain", text)
	}
	return m
}
