package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/creativityhunt/creahunt/internal/config"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
)

type EmailSender interface {
	Send(to, subject, body string) error
	// VerifyConfig is the pre-flight check run before generating a
	// verification code, so a misconfigured mailer fails fast instead of
	// generate-then-fail.
	VerifyConfig() error
}

type smtpSender struct {
	cfg config.MailConfig
}

func NewEmailSender(cfg config.MailConfig) EmailSender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) VerifyConfig() error {
	if s.cfg.Host == "" || s.cfg.Port == 0 || strings.TrimSpace(s.cfg.From) == "" {
		return appErr.ErrMailUnavailable
	}
	return nil
}

func (s *smtpSender) Send(to, subject, body string) error {
	if err := s.VerifyConfig(); err != nil {
		return err
	}
	from := strings.TrimSpace(s.cfg.From)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body)
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}
