package domain

import "strings"

// RecipientSeparator joins a mailing list into a single To header
const RecipientSeparator = ", "

// Message is a plaintext email addressed to a whole mailing list
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// NewMessage addresses a composed email from sender to every recipient.
// The recipient slice is copied so later changes by the caller do not leak in.
func NewMessage(from string, email *ComposedEmail, recipients ...string) *Message {
	to := make([]string, len(recipients))
	copy(to, recipients)

	return &Message{
		From:    from,
		To:      to,
		Subject: email.Subject,
		Body:    email.Body,
	}
}

// ToHeader returns the recipients joined for the To header
func (m *Message) ToHeader() string {
	return strings.Join(m.To, RecipientSeparator)
}

// Validate checks the message can be handed to a transport
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if m.From == "" {
		return ErrNoSender
	}
	return nil
}
