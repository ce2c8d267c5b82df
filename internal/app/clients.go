package app

import (
	"context"
	"fmt"

	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
	"github.com/losaltoshacks/registration-backend/internal/platform/sendgrid"
	"github.com/losaltoshacks/registration-backend/internal/platform/ses"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

// wireMailSender picks the outbound mail provider named by MAIL_PROVIDER.
func wireMailSender(ctx context.Context, log *logger.Logger, cfg Config) (services.MailSender, error) {
	log.Info("Wiring mail sender...", "provider", cfg.Mail.Provider)
	switch cfg.Mail.Provider {
	case MailProviderSendGrid:
		client, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			return nil, fmt.Errorf("init sendgrid: %w", err)
		}
		return services.NewSendGridSender(client), nil
	case MailProviderSES:
		client, err := ses.New(ctx, log, cfg.SES)
		if err != nil {
			return nil, fmt.Errorf("init ses: %w", err)
		}
		return services.NewSESSender(client), nil
	default:
		return services.NewLogSender(log), nil
	}
}
