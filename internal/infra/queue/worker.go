package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/calldesk/internal/entity"
	"github.com/xavierca1/calldesk/internal/usecase"
)

type MissedCallMailer interface {
	SendMissedCall(msg usecase.MissedCallMessage) error
}

// Worker consumes lead events and emails leads that did not pick up.
type Worker struct {
	Channel *amqp.Channel
	Mailer  MissedCallMailer
	Company string
}

func NewWorker(ch *amqp.Channel, mailer MissedCallMailer, company string) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
		Company: company,
	}
}

// Start blocks until ctx is done or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Println("⚠️ [WORKER] delivery channel closed")
				return nil
			}
			if err := w.process(ctx, d.Body); err != nil {
				log.Printf("❌ [WORKER] %v", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var ev usecase.LeadEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("invalid lead event: %w", err)
	}

	log.Printf("📥 [WORKER] %s -> %s", ev.LeadName, ev.Status)

	if ev.Status != entity.StatusNoAnswer {
		return nil
	}
	if ev.LeadEmail == "" {
		log.Printf("⚠️ [WORKER] %s has no email, skipping follow-up", ev.LeadName)
		return nil
	}

	lead := entity.Lead{ID: ev.LeadID, Name: ev.LeadName, Email: ev.LeadEmail, Status: ev.Status}
	msg, err := usecase.ComposeMissedCall(lead, ev.CallerName, w.Company)
	if err != nil {
		return err
	}
	if err := w.Mailer.SendMissedCall(msg); err != nil {
		return err
	}

	log.Printf("✉️ [WORKER] missed-call email sent to %s", ev.LeadEmail)
	return nil
}
