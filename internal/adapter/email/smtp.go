package email

import (
	"context"
	"net/smtp"
)

// SMTPSender sends plain-text mail through a configured relay. Auth is
// optional so local catch-all servers (MailHog and friends) keep working.
type SMTPSender struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host, port, from, username, password string) *SMTPSender {
	s := &SMTPSender{host: host, port: port, from: from}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := "From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	return smtp.SendMail(s.host+":"+s.port, s.auth, s.from, []string{to}, []byte(msg))
}
