package events

import (
	"context"
	"encoding/json"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/infrastructure/contracts"
	"github.com/turndownhq/turndown/internal/infrastructure/messaging"
)

type BoardPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewBoardPublisher(rabbitmq *messaging.RabbitMQ) *BoardPublisher {
	return &BoardPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *BoardPublisher) PublishPropertyCreated(ctx context.Context, log *domain.BoardAuditLog) error {
	return p.publish(ctx, contracts.EventPropertyCreated, log)
}

func (p *BoardPublisher) PublishEmployeeAdded(ctx context.Context, log *domain.BoardAuditLog) error {
	return p.publish(ctx, contracts.EventEmployeeAdded, log)
}

func (p *BoardPublisher) PublishRoomCreated(ctx context.Context, log *domain.BoardAuditLog) error {
	return p.publish(ctx, contracts.EventRoomCreated, log)
}

func (p *BoardPublisher) PublishStatusChanged(ctx context.Context, log *domain.BoardAuditLog) error {
	return p.publish(ctx, contracts.EventStatusChanged, log)
}

func (p *BoardPublisher) PublishNotesChanged(ctx context.Context, log *domain.BoardAuditLog) error {
	return p.publish(ctx, contracts.EventNotesChanged, log)
}

func (p *BoardPublisher) publish(ctx context.Context, routingKey string, log *domain.BoardAuditLog) error {
	payload := messaging.BoardEventData{
		Event: *log,
	}

	boardEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		PropertyCode: log.PropertyCode,
		Data:         boardEventJSON,
	})
}
