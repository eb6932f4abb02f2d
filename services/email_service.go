package services

import (
	"context"
	"fmt"
	"html"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

var _ PaymentNotifier = (*EmailService)(nil)

// NewEmailService returns a sender. Without an API key every send is skipped.
func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	es := &EmailService{logger: logger, cfg: cfg}
	if cfg.Email.ApiKey != "" {
		es.client = resend.NewClient(cfg.Email.ApiKey)
	}
	return es
}

func (es *EmailService) Enabled() bool {
	return es.client != nil
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if !es.Enabled() {
		es.logger.Debug("Email disabled, skipping send", gecho.Field("subject", subject))
		return nil
	}

	startTime := time.Now()
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	sent, err := es.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	es.logger.Info("Email sent",
		gecho.Field("id", sent.Id),
		gecho.Field("subject", subject),
		gecho.Field("duration", time.Since(startTime)))
	return nil
}

// SendPaymentProfileSaved tells the buyer which card and address were stored. Only the masked card is shown.
func (es *EmailService) SendPaymentProfileSaved(ctx context.Context, to string, profile *tables.PaymentProfile) error {
	address := strings.Join(nonEmpty(
		profile.PostalCode, profile.Region, profile.Locality, profile.Line1, profile.Line2, profile.Country,
	), " ")

	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="content">
					<h1>決済情報を登録しました</h1>
					<p>%s **** %s (%02d/%d)</p>
					<p>%s</p>
					<p>%s</p>
				</div>
				<div class="content">
					<h1>Your payment details were saved</h1>
					<p>No charge has been made. This card is kept for your next purchase.</p>
				</div>
				<div class="footer">
					<p>%s</p>
				</div>
			</div>
		</body>
		</html>
	`,
		strings.ToUpper(html.EscapeString(profile.CardBrand)),
		html.EscapeString(profile.Last4),
		profile.ExpMonth,
		profile.ExpYear,
		html.EscapeString(profile.BillingName),
		html.EscapeString(address),
		html.EscapeString(es.cfg.Server.AppName),
	)

	return es.SendEmail(ctx, []string{to}, "Payment details saved", body)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
