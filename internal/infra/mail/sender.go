package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/calldesk/internal/usecase"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
	s.send = func(m *gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m)
	}
	return s
}

// Configured reports whether an SMTP relay was provided.
func (s *EmailSender) Configured() bool {
	return s != nil && s.Host != ""
}

func (s *EmailSender) SendMissedCall(msg usecase.MissedCallMessage) error {
	if !s.Configured() {
		return fmt.Errorf("smtp relay not configured")
	}
	if err := s.send(s.buildMessage(msg)); err != nil {
		return fmt.Errorf("send missed-call email to %s: %w", msg.To, err)
	}
	return nil
}

func (s *EmailSender) buildMessage(msg usecase.MissedCallMessage) *gomail.Message {
	from := s.From
	if from == "" {
		from = s.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}
