package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail delivers a message through the configured SMTP account.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("EMAIL_FROM")
	password := os.Getenv("EMAIL_PASSWORD")

	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	if password == "" {
		return fmt.Errorf("EMAIL_PASSWORD is not set")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendPasswordResetEmail mails the raw reset token to the user. Only the
// hash is persisted, so this is the single place the raw token leaves the
// process.
func SendPasswordResetEmail(to, token string) error {
	appURL := os.Getenv("APP_URL")
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Click the link below to reset your password. The link expires in 30 minutes.<br><br>"+
			"<a href=\"%s/reset-password?token=%s\">Reset password</a>", appURL, token)
	return SendEmail(to, subject, body)
}
