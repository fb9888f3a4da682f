package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/rabbitmq/amqp091-go"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/infrastructure/contracts"
	"github.com/turndownhq/turndown/internal/infrastructure/messaging"
)

type auditConsumer struct {
	rabbitmq   *messaging.RabbitMQ
	repository domain.BoardAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, repository domain.BoardAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq:   rabbitmq,
		repository: repository,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		var payload messaging.BoardEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		if err := c.repository.Log(ctx, &payload.Event); err != nil {
			log.Printf("Failed to persist audit event: %v", err)
			return err
		}

		return nil
	})
}
