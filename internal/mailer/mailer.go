package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends transactional mail over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendInvitation mails a board invitation with its acceptance link.
func (m *SMTPMailer) SendInvitation(to, boardTitle, inviterName, acceptURL string, expiresAt time.Time) error {
	subject := fmt.Sprintf("%s invited you to the board \"%s\"", inviterName, boardTitle)

	body := fmt.Sprintf(`
	<html>
	<body style="font-family: 'Segoe UI', Roboto, Arial, sans-serif; color: #333;">
		<h2>You're invited!</h2>
		<p><b>%s</b> invited you to collaborate on the board <b>%s</b>.</p>
		<p><a href="%s" style="display: inline-block; background-color: #0a4d3c; color: #ffffff; text-decoration: none; padding: 10px 22px; border-radius: 6px;">Join the board</a></p>
		<p style="color: #888; font-size: 12px;">This invitation expires on <b>%s</b>.</p>
	</body>
	</html>
	`, inviterName, boardTitle, acceptURL, expiresAt.Format("3:04 PM, Jan 2 2006"))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
