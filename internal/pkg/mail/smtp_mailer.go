package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/LwandleM/SafeSuburb/internal/pkg/env"
)

// SendMail sends an email via SMTP.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendAccountApprovedMail notifies a user that a moderator approved their
// account and they may now file reports.
func SendAccountApprovedMail(to string, name string) error {
	subject := "Your SafeSuburb account has been approved"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your SafeSuburb account has been approved. You can now file vehicle theft alerts and crime reports for your community.</p>"+
			"<p>Please keep your SAPS case numbers handy when reporting.</p>"+
			"<p>Stay safe,<br>The SafeSuburb Team</p>",
		name,
	)
	return SendMail(to, subject, body)
}
