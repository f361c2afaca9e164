package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends one AMQP message. *rabbitmq.Client implements it.
type Publisher interface {
	Publish(ctx context.Context, msg amqp.Publishing) error
}

// AMQPPublisher forwards draw notifications to RabbitMQ as persistent JSON messages
type AMQPPublisher struct {
	publisher Publisher
	appID     string
}

func NewAMQPPublisher(publisher Publisher, appID string) *AMQPPublisher {
	return &AMQPPublisher{publisher: publisher, appID: appID}
}

var _ Notifier = (*AMQPPublisher)(nil)

func (p *AMQPPublisher) Publish(ctx context.Context, n models.DrawNotification) error {
	// Controller presence only matters to screens in the room.
	if n.Kind == models.NotificationControllerStatus {
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    n.ID,
		Type:         string(n.Kind),
		AppId:        p.appID,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{"eventId": n.EventID},
		Body:         body,
	})
}
