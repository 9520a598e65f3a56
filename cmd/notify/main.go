package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/shiftwatch/dashboard/backend/internal/config"
	"github.com/shiftwatch/dashboard/backend/internal/domain"
)

// alertBody is the operator alert mail. Inlined so the binary has no runtime
// file dependencies.
const alertBody = `
<p>A staffing dashboard refresh needs attention.</p>
<ul>
  <li>Method: {{ .Method }}</li>
  <li>Succeeded: {{ .Succeeded }}</li>
  <li>Partial result: {{ .Partial }}</li>
  <li>Pages fetched: {{ .PageCount }}</li>
  <li>Shifts: {{ .ShiftCount }}</li>
  <li>Duration: {{ .DurationMS }} ms</li>
  {{ if .Detail }}<li>Detail: {{ .Detail }}</li>{{ end }}
</ul>
`

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	tmpl, err := template.New("alert").Parse(alertBody)
	if err != nil {
		logger.Error("failed to parse alert template", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"refresh_events",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to consume messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				refresh := domain.RefreshMessage{}
				if err := json.Unmarshal(msg.Body, &refresh); err != nil {
					logger.Error("failed to decode refresh event", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// Healthy refreshes carry no alert value.
				if refresh.Succeeded && !refresh.Partial {
					_ = msg.Ack(false)
					continue
				}

				logger.Info("refresh needs attention",
					slog.String("method", refresh.Method),
					slog.Bool("succeeded", refresh.Succeeded),
					slog.Bool("partial", refresh.Partial),
				)

				alert := mail.NewMsg()
				if err := alert.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("failed to set mail sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := alert.To(cfg.Email.Operator); err != nil {
					logger.Error("failed to set mail recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := alert.SetBodyHTMLTemplate(tmpl, refresh); err != nil {
					logger.Error("failed to render mail body", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if refresh.Succeeded {
					alert.Subject("Staffing dashboard - partial refresh")
				} else {
					alert.Subject("Staffing dashboard - refresh failed")
				}

				if err := client.DialAndSend(alert); err != nil {
					logger.Error("failed to send alert mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue for another attempt
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	<-sigChan
	logger.Info("shutting down notifier...")
	cancel()
	wg.Wait()
	logger.Info("notifier stopped")
}
