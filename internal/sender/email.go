package sender

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"fashun-backend/config"
	"fashun-backend/internal/model"

	gopkgmail "gopkg.in/gomail.v2"
)

type EmailSender struct {
	cfg *config.NotifierConfig
}

func NewEmailSender(cfg *config.NotifierConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) SendEmail(n model.EmailNotification) error {
	htmlBody, err := s.render(n.Template, ".html", n.Data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.render(n.Template, ".txt", n.Data)
	if err != nil {
		return fmt.Errorf("render plain: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	d := gopkgmail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	d.SSL = true
	return d.DialAndSend(m)
}

func (s *EmailSender) render(tmplName, ext string, data map[string]any) (string, error) {
	path := filepath.Join(s.cfg.TMPLDir, tmplName+ext)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(tmplName).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
