package consumer

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/mq"
	"fleet-dispatch/internal/shared/ws"
)

// FeedConsumer relays every fleet event to the connected dashboards.
// Stat cards and the live map recompute client-side from the full
// feed, so no filtering happens here.
type FeedConsumer struct {
	channel   *amqp.Channel
	queue     string
	wsManager *ws.Manager
	logger    *logger.Logger
}

func NewFeedConsumer(ch *amqp.Channel, wsManager *ws.Manager, log *logger.Logger) *FeedConsumer {
	return &FeedConsumer{
		channel:   ch,
		queue:     "admin_feed",
		wsManager: wsManager,
		logger:    log,
	}
}

func (c *FeedConsumer) Start() error {
	q, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return err
	}

	for _, key := range []string{"task.#", "driver.#"} {
		if err := c.channel.QueueBind(q.Name, key, mq.FleetExchange, false, nil); err != nil {
			return err
		}
	}

	msgs, err := c.channel.Consume(
		q.Name,
		"",
		false, // manual acknowledgment
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			c.handle(msg)
		}
	}()
	c.logger.Info("FeedConsumer", "admin_feed consumer started")
	return nil
}

func (c *FeedConsumer) handle(msg amqp.Delivery) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.logger.Warn("FeedConsumer", "invalid JSON: "+err.Error())
		msg.Nack(false, false)
		return
	}

	c.wsManager.Broadcast(map[string]interface{}{
		"type":    "fleet_event",
		"routing": msg.RoutingKey,
		"event":   payload,
	})

	msg.Ack(false)
}
