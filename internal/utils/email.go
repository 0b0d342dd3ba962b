package utils

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"dotscent_back_end/internal/config"
	"dotscent_back_end/internal/models"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	defaultFrom = "noreply@dotscent.pk"
	sendTimeout = 15 * time.Second
)

// Mailer envoie à la boutique une copie des messages du formulaire de contact.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
	logger   *zap.Logger
}

// NewMailer renvoie nil si le SMTP n'est pas configuré.
func NewMailer(cfg *config.Config, logger *zap.Logger) *Mailer {
	if !cfg.MailEnabled() {
		return nil
	}
	from := cfg.SMTPUsername
	if !strings.Contains(from, "@") {
		from = defaultFrom
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     from,
		to:       cfg.ContactEmail,
		logger:   logger,
	}
}

// NotifyContact envoie le message de contact par e-mail.
func (m *Mailer) NotifyContact(ctx context.Context, form models.ContactForm) error {
	msg, err := BuildContactEmail(m.from, m.to, form)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("client smtp: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	m.logger.Info("📤 Envoi de l'e-mail de contact", zap.String("to", m.to))
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("envoi e-mail: %w", err)
	}
	return nil
}

// BuildContactEmail prépare le message; Reply-To pointe vers le client.
func BuildContactEmail(from, to string, form models.ContactForm) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	if err := msg.ReplyTo(form.Email); err != nil {
		return nil, fmt.Errorf("adresse de réponse invalide: %w", err)
	}
	msg.Subject("💬 Nouveau message de " + form.Name + " - DotScent")
	msg.SetBodyString(mail.TypeTextHTML, contactEmailHTML(form))
	msg.AddAlternativeString(mail.TypeTextPlain, fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", form.Name, form.Email, form.Message))
	return msg, nil
}

func contactEmailHTML(form models.ContactForm) string {
	body := strings.ReplaceAll(html.EscapeString(form.Message), "\n", "<br>")
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #0b0b0b; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #b8860b;">New Contact Form Message</h2>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p>%s</p>
		<hr>
		<p style="color: #777; font-size: 12px;">Sent from DotScent Website</p>
	</div>
</body>
</html>`, html.EscapeString(form.Name), html.EscapeString(form.Email), body)
}
