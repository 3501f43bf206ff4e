package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/PedroFNMDEV/SextoCommit/internal/config"
)

// Sender delivers operator notifications for billing-driven lifecycle
// events. Delivery is best effort; callers must not fail the event on error.
type Sender interface {
	SendBillingEvent(ctx context.Context, event, accountEmail, motivo string) error
}

type LogSender struct{}

func (LogSender) SendBillingEvent(ctx context.Context, event, accountEmail, motivo string) error {
	_ = ctx
	log.Printf("billing event=%s account=%s motivo=%q", event, accountEmail, motivo)
	return nil
}

type SMTPSender struct {
	host string
	port int
	from string
	to   string
}

func NewSender(cfg config.Config) Sender {
	switch cfg.NotifySender {
	case "smtp":
		return SMTPSender{
			host: cfg.NotifySMTPHost,
			port: cfg.NotifySMTPPort,
			from: cfg.NotifyFrom,
			to:   cfg.NotifyTo,
		}
	default:
		return LogSender{}
	}
}

func (s SMTPSender) SendBillingEvent(ctx context.Context, event, accountEmail, motivo string) error {
	_ = ctx
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	body := fmt.Sprintf("Subject: Evento de cobrança: %s\r\n\r\nConta: %s\r\nEvento: %s\r\nMotivo: %s\r\n",
		event, accountEmail, event, motivo)
	return smtp.SendMail(addr, nil, s.from, []string{s.to}, []byte(body))
}
