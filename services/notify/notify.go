// Package notify emails operators when a verification exhausts every
// attempt. It plugs into the verifier as its failure sink.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Options struct {
	Smtp SmtpConfig
	// Recipients of failure mail. Empty disables sending.
	Recipients []string
}

type Service struct {
	config Options
}

func NewService(options Options) Service {
	return Service{config: options}
}

// VerificationFailed implements verify.FailureSink. Send problems are
// logged rather than returned; the verification outcome is already
// settled by the time this runs.
func (s Service) VerificationFailed(ctx context.Context, query verify.Query, cause error) {
	err := s.send(ctx, query, cause)
	if err != nil {
		slog.WarnContext(ctx, "failed to send failure notification",
			"insurer", query.Insurer,
			"emirates_id", query.EmiratesID,
			"err", err,
		)
	}
}

func (s Service) send(ctx context.Context, query verify.Query, cause error) error {
	ctx, span := tracer.Start(ctx, "send")
	defer span.End()

	if len(s.config.Recipients) == 0 {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Eligibility App <%s>", s.config.Smtp.EmailAddress)
	mail.To = s.config.Recipients
	mail.Subject = fmt.Sprintf("Eligibility verification failed: %s / %s", query.Insurer, query.EmiratesID)

	body := fmt.Sprintf(`An eligibility verification did not complete.

Insurer:     %s
Emirates ID: %s
Mobile:      %s
Error:       %v`,
		query.Insurer, query.EmiratesID, query.MobileNumber, cause)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.config.Smtp.Server, s.config.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", s.config.Smtp.EmailAddress, s.config.Smtp.Password, s.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}

	slog.InfoContext(ctx, "sent failure notification",
		"insurer", query.Insurer,
		"emirates_id", query.EmiratesID,
		"recipients", len(s.config.Recipients),
	)
	return nil
}
