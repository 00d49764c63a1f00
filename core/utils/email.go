package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"bookwise/core/config"
)

type EmailMessage struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// SendEmailTLS delivers a message over SMTP with STARTTLS. Callers on the
// booking path invoke this from a background task, never inline.
func SendEmailTLS(cfg config.SMTPConfig, msg EmailMessage) error {
	if cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if cfg.Username != "" {
		auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	contentType := "text/plain; charset=UTF-8"
	if msg.IsHTML {
		contentType = "text/html; charset=UTF-8"
	}
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n",
		cfg.From, strings.Join(msg.To, ", "), msg.Subject, contentType)

	if _, err := w.Write([]byte(headers + msg.Body)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
