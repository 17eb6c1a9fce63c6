package email

import (
	"context"
	"log/slog"
)

// LogProvider пишет письма в лог вместо отправки (SMTP не настроен, локальная разработка)
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	body := email.Body
	if body == "" {
		body = email.HTMLBody
	}
	p.logger.InfoContext(ctx, "email not sent: smtp is not configured",
		"to", email.To,
		"subject", email.Subject,
		"body", body,
	)
	return nil
}

func (p *LogProvider) Validate() error {
	return nil
}
