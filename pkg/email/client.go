// Package email provides an SMTP client for delivering reminder
// notifications to students' mailboxes.
package email

import (
	"strings"

	"gopkg.in/mail.v2"
)

// Client sends plain-text notification mails over SMTP.
type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
}

// NewClient creates a new SMTP client.
func NewClient(smtpHost string, smtpPort int, username, password, from string) *Client {
	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers msg to the given address. When msg starts with a title
// line separated by a blank line, that line becomes the subject.
func (c *Client) Send(to string, msg string) error {
	subject := "Deadline reminder"
	if i := strings.Index(msg, "\n\n"); i > 0 {
		subject, msg = msg[:i], msg[i+2:]
	}

	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)

	message.SetBody("text/plain", msg)

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)

	return dialer.DialAndSend(message)
}
