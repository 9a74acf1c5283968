package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

type Publisher struct {
	pool      *ChannelPool
	queueName string
}

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
	}
}

// PublishJSON sends payload as a persistent JSON message to the default exchange, routed by queue name.
func (p *Publisher) PublishJSON(ctx context.Context, messageType string, payload any) error {
	ch, err := p.pool.Get()
	if err != nil {
		return fmt.Errorf("getting channel from pool: %w", err)
	}
	defer p.pool.Put(ch)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s message: %w", messageType, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         messageType,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publishing %s message: %w", messageType, err)
	}

	return nil
}
