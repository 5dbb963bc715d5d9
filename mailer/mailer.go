// Package mailer delivers confirmation mail. Delivery is best effort: the
// auth flow treats a send failure as a warning, never as a reason to fail
// signup.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type Sender interface {
	Send(toAddress, subject, body string) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{Addr: addr, From: from}
}

func (s *SMTPSender) Send(toAddress, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", toAddress)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return smtp.SendMail(s.Addr, nil, s.From, []string{toAddress}, []byte(msg.String()))
}

// LogSender writes mail to the process log instead of delivering it. Used
// when no SMTP relay is configured.
type LogSender struct{}

func (LogSender) Send(toAddress, subject, body string) error {
	log.Printf("mail to %s: %s: %s", toAddress, subject, body)
	return nil
}
