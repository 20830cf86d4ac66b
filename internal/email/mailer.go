package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/resend/resend-go/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/telemetry"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// ResendMailer implements Mailer using the Resend API
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a new ResendMailer. from is the verified
// sender, e.g. "Eustress <hello@eustress.in>".
func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("sender address is required")
	}

	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// Send delivers one message through Resend
func (m *ResendMailer) Send(ctx context.Context, msg *Message) error {
	ctx, span := telemetry.StartSpan(ctx, "email.resend.send")
	defer span.End()

	span.SetAttributes(attribute.String("subject", msg.Subject))

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to send email: %w", err)
	}

	span.SetAttributes(attribute.String("email_id", sent.Id))
	span.SetStatus(codes.Ok, "")
	return nil
}

// MockMailer records sent messages for tests. FailFor lists recipients
// whose sends should fail.
type MockMailer struct {
	mu      sync.Mutex
	Sent    []*Message
	FailFor map[string]bool
}

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]bool)}
}

// Send records the message, or fails if the recipient is marked
func (m *MockMailer) Send(ctx context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFor[msg.To] {
		return fmt.Errorf("delivery to %s failed", msg.To)
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// SentTo reports whether a message was recorded for the recipient
func (m *MockMailer) SentTo(to string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Sent {
		if msg.To == to {
			return true
		}
	}
	return false
}

// Count returns the number of recorded messages
func (m *MockMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
