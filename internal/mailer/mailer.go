// Package mailer sends the reply notification to the author of a contact
// message.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"time"

	"github.com/atinyakov/baristafolio/internal/breaker"
	"github.com/atinyakov/baristafolio/internal/config"
	"github.com/atinyakov/baristafolio/internal/metrics"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no sender account is configured.
var ErrNotConfigured = errors.New("mail transport is not configured")

// Transport delivers a fully built RFC 5322 message.
type Transport interface {
	Send(ctx context.Context, from, to string, msg []byte) error
}

// Mailer renders and sends reply emails.
type Mailer struct {
	transport Transport
	from      mail.Address
	renderer  *renderer
	breaker   *breaker.Breaker[struct{}]
	log       *zap.Logger
}

// New returns a Mailer sending as smtp.User through transport.
func New(smtp config.SMTPOptions, site config.SiteOptions, transport Transport, log *zap.Logger) (*Mailer, error) {
	r, err := newRenderer(site)
	if err != nil {
		return nil, err
	}
	fromName := smtp.FromName
	if fromName == "" {
		fromName = site.OwnerName
	}
	return &Mailer{
		transport: transport,
		from:      mail.Address{Name: fromName, Address: smtp.User},
		renderer:  r,
		breaker:   breaker.New[struct{}](breaker.DefaultConfig("smtp"), log),
		log:       log,
	}, nil
}

// SendReply emails the reply to the author of the original message.
func (m *Mailer) SendReply(ctx context.Context, email models.ReplyEmail) error {
	if m.from.Address == "" || m.transport == nil {
		return ErrNotConfigured
	}
	text, html, err := m.renderer.render(email)
	if err != nil {
		return err
	}
	msg, err := m.build(email.To, m.renderer.subject(), text, html)
	if err != nil {
		return err
	}

	_, err = m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.transport.Send(ctx, m.from.Address, email.To, msg)
	})
	metrics.ObserveUpstream("smtp", "send", err)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	m.log.Info("reply email sent", zap.String("to", email.To))
	return nil
}

func (m *Mailer) build(to, subject, text, html string) ([]byte, error) {
	var buf bytes.Buffer
	boundary := "alt_" + uuid.NewString()

	fmt.Fprintf(&buf, "From: %s\r\n", m.from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", (&mail.Address{Address: to}).String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	for _, part := range []struct{ contentType, body string }{
		{"text/plain", text},
		{"text/html", html},
	} {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=UTF-8\r\n", part.contentType)
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}
