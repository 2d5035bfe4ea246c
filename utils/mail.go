package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendMail delivers a single HTML email through the configured SMTP relay.
// Returns false without error when mail is not configured (development).
func SendMail(to, subject, html string) (bool, error) {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")

	if host == "" || from == "" {
		return false, nil
	}
	if port == "" {
		port = "587"
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		from, to, subject, html))

	auth := smtp.PlainAuth("", from, password, host)
	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, msg); err != nil {
		return false, err
	}
	return true, nil
}
