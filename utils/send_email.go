package utils

import (
	"fmt"
	"net/smtp"
)

// Mailer mengirim email kredensial lewat SMTP Gmail. Kredensial pengirim
// datang dari konfigurasi, bukan dibaca ulang dari environment.
type Mailer struct {
	From     string
	Password string
}

func NewMailer(from, password string) *Mailer {
	return &Mailer{From: from, Password: password}
}

func (m *Mailer) Send(to, subject, body string) error {
	// Header: dukung UTF-8 & HTML
	msg := ""
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += fmt.Sprintf("From: %s\r\n", m.From)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "\r\n" + body

	err := smtp.SendMail(
		"smtp.gmail.com:587",
		smtp.PlainAuth("", m.From, m.Password, "smtp.gmail.com"),
		m.From,
		[]string{to},
		[]byte(msg),
	)

	if err != nil {
		return fmt.Errorf("gagal mengirim email: %v", err)
	}
	return nil
}
