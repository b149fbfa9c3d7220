package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/config"
	"github.com/Dan9191/budget-service/internal/service"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// ErrDisabled is returned when SMTP is not configured
var ErrDisabled = errors.New("mail delivery is not configured")

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendDigest mails the user a summary of their risk level and goals at risk
func (s *Sender) SendDigest(d *service.Digest) error {
	if !s.cfg.MailEnabled() {
		return ErrDisabled
	}
	e := composeDigest(s.cfg.SenderEmail, d)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", d.User.Email, err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", d.User.Email, e.Subject)
	return nil
}

func composeDigest(from string, d *service.Digest) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{d.User.Email}
	if len(d.AtRisk) > 0 {
		e.Subject = "Your savings goals need attention"
	} else {
		e.Subject = "Your spending needs attention"
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "Spending risk: %s (%d%%)\n%s\n", d.Risk.Level, d.Risk.Percentage, d.Risk.Recommendation)

	if len(d.AtRisk) > 0 {
		fmt.Fprintf(&b, "\n%d of your %d dated goals are unlikely to be met:\n", len(d.AtRisk), d.GoalsTotal)
		for _, fc := range d.AtRisk {
			fmt.Fprintf(&b, "- %s: %s by %s, needs %s/month (currently %s/month). %s\n",
				fc.Goal.Name,
				analytics.WholeMoney(d.Currency, fc.Goal.Amount),
				fc.Goal.TargetDate.Format("2006-01-02"),
				analytics.Money(d.Currency, fc.RequiredMonthlySavings),
				analytics.Money(d.Currency, fc.CurrentMonthlySavings),
				fc.Advice,
			)
		}
	}
	b.WriteString("\nBest regards,\nBudget Service")
	e.Text = []byte(b.String())
	return e
}
