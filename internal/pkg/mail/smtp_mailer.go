package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/genbuddy/GenBuddy/internal/pkg/env"
)

// SendMail sends an email via SMTP
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

// SendActivationMail sends the account activation link after registration.
func SendActivationMail(to string, token string) error {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	link := fmt.Sprintf("%s/activate?token=%s", base, token)
	body := fmt.Sprintf(
		"<p>Welcome to Genealogy Buddy AI!</p><p>Please confirm your email address: <a href=\"%s\">Activate account</a></p>",
		link,
	)
	return SendMail(to, "Activate your Genealogy Buddy AI account", body)
}

// SendQuotaNotice informs a user that a monthly tool quota is used up.
// Best-effort; callers ignore the returned error beyond logging.
func SendQuotaNotice(to string, feature string, limit int) error {
	body := fmt.Sprintf(
		"<p>You have used all %d %s analyses included in your plan this month.</p>"+
			"<p>Your quota resets on the first of next month, or you can upgrade your plan for higher limits.</p>",
		limit, feature,
	)
	return SendMail(to, "Monthly analysis limit reached", body)
}
