package mail

import gomail "gopkg.in/gomail.v2"

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a single message. Delivery is best-effort everywhere in
// this system; callers log failures and move on.
type Mailer interface {
	Send(m Message) error
}

type SMTPMailer struct {
	dialer   *gomail.Dialer
	fromAddr string
	fromName string
}

func NewSMTPMailer(host string, port int, user, password, fromAddr, fromName string) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(host, port, user, password),
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

func (s *SMTPMailer) Send(m Message) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.fromAddr, s.fromName)
	msg.SetAddressHeader("To", m.To, m.ToName)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}
	return s.dialer.DialAndSend(msg)
}

// NoopMailer stands in when SMTP is not configured, e.g. in local
// development.
type NoopMailer struct{}

func (NoopMailer) Send(Message) error { return nil }
