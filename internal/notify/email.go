package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Email delivers notifications over SMTP. The send is synchronous but short:
// callers treat delivery as fire-and-forget and only log failures.
type Email struct {
	Host     string
	Port     int
	From     string
	Password string
	To       []string
}

// NewEmail returns nil when the channel is not configured; callers should
// warn once and carry on without it.
func NewEmail(host string, port int, from, password string, to []string) *Email {
	if host == "" || from == "" || len(to) == 0 {
		return nil
	}
	return &Email{Host: host, Port: port, From: from, Password: password, To: to}
}

func (e *Email) Send(ctx context.Context, subject, body string) error {
	msg := buildMessage(e.From, e.To, subject, body)

	var auth smtp.Auth
	if e.Password != "" {
		auth = smtp.PlainAuth("", e.From, e.Password, e.Host)
	}

	addr := net.JoinHostPort(e.Host, fmt.Sprintf("%d", e.Port))

	done := make(chan error, 1)
	go func() { done <- smtp.SendMail(addr, auth, e.From, e.To, msg) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
