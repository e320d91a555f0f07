package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *Mailer) SendVerification(to, name, link string) error {
	body := fmt.Sprintf(`
		<div style="font-family:sans-serif;max-width:600px;margin:0 auto">
			<h2>Welcome to Service Pro, %s!</h2>
			<p>Please confirm your email address to activate your account.</p>
			<p><a href="%s" style="background:#4f46e5;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none">Verify Email</a></p>
			<p style="color:#94a3b8;font-size:13px">If the button does not work, copy this link: %s</p>
		</div>`, name, link, link)

	return m.send(to, "Welcome to Service Pro - Confirm your email address", body)
}

func (m *Mailer) SendPasswordReset(to, link string) error {
	body := fmt.Sprintf(`
		<div style="font-family:sans-serif;max-width:600px;margin:0 auto">
			<h2>Reset your password</h2>
			<p>We received a request to reset your Service Pro password.</p>
			<p><a href="%s" style="background:#4f46e5;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none">Reset Password</a></p>
			<p style="color:#94a3b8;font-size:13px">If you did not request this, you can safely ignore this email.</p>
		</div>`, link)

	return m.send(to, "Reset your password", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
