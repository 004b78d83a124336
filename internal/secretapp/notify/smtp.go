package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPNotifier delivers notifications over SMTP. Delivery is bounded by
// Timeout via a connection deadline, so a stalled mail server surfaces as a
// synchronous error the registration workflow can roll back on.
type SMTPNotifier struct {
	Addr     string // host:port of the SMTP server
	From     string // sender address, e.g. "secretapp@gerneth.info"
	Username string // optional; enables PLAIN auth when set
	Password string
	Timeout  time.Duration // defaults to 10s when zero
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	timeout := n.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", n.Addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	// The deadline covers the whole SMTP conversation, not just the dial.
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp deadline: %w", err)
	}

	host := n.Addr
	if h, _, splitErr := net.SplitHostPort(n.Addr); splitErr == nil {
		host = h
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if n.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", n.Username, n.Password, host)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(n.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := strings.Join([]string{
		"From: " + n.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}
