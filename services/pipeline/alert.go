package pipeline

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"dealforge-backend/lib/dealstore"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// AlertConfig controls price-drop notification email. Credentials may
// come from the environment (SMTP_EMAIL_ADDRESS / SMTP_PASSWORD)
// instead of the config file so they stay out of version control.
type AlertConfig struct {
	Smtp       SmtpConfig `json:"smtp"`
	Recipients []string   `json:"recipients"`
	// only drops at or above this amount are mailed out
	MinDrop float64 `json:"min_drop"`
}

type Alerter struct {
	config AlertConfig
}

func NewAlerter(config AlertConfig) Alerter {
	if config.Smtp.EmailAddress == "" {
		config.Smtp.EmailAddress = os.Getenv("SMTP_EMAIL_ADDRESS")
	}
	if config.Smtp.Password == "" {
		config.Smtp.Password = os.Getenv("SMTP_PASSWORD")
	}
	return Alerter{config: config}
}

// SendDropAlert mails a plain-text summary of the given price drops
// to every configured recipient. Drops below the configured minimum
// are left out; sending nothing is not an error.
func (a Alerter) SendDropAlert(ctx context.Context, drops []dealstore.PriceDrop) error {
	_, span := tracer.Start(ctx, "SendDropAlert")
	defer span.End()

	var lines []string
	for _, drop := range drops {
		if drop.Drop < a.config.MinDrop {
			continue
		}
		lines = append(lines, fmt.Sprintf(
			"- %s\n  $%.2f (was $%.2f, -%.1f%%)\n  %s",
			drop.Title, drop.CurrentPrice, drop.LowestBefore, drop.DropPercent, drop.Link,
		))
	}
	if len(lines) == 0 {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Deal Forge <%s>", a.config.Smtp.EmailAddress)
	mail.To = a.config.Recipients
	mail.Subject = fmt.Sprintf("%d price drops spotted", len(lines))
	mail.Text = []byte(fmt.Sprintf(
		"The latest scrape found deals below their previous lowest price.\n\n%s\n",
		strings.Join(lines, "\n\n"),
	))

	addr := fmt.Sprintf("%s:%d", a.config.Smtp.Server, a.config.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", a.config.Smtp.EmailAddress, a.config.Smtp.Password, a.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send drop alert")
		return err
	}
	return nil
}
