package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers events as plain-text mail over SMTP.
// Unauthenticated relay: the internal mail host does not require auth.
type EmailSender struct {
	Host string
	Port int
	From string
	To   []string
}

func NewEmailSender(host string, port int, from string, to []string) *EmailSender {
	return &EmailSender{Host: host, Port: port, From: from, To: to}
}

func (s *EmailSender) Send(e Event) error {
	if len(s.To) == 0 {
		return nil
	}

	msg := strings.Builder{}
	msg.WriteString("From: " + s.From + "\r\n")
	msg.WriteString("To: " + strings.Join(s.To, ", ") + "\r\n")
	msg.WriteString("Subject: " + Headline(e) + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(FormatText(e) + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	if err := smtp.SendMail(addr, nil, s.From, s.To, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
