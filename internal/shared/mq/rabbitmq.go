package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fleet-dispatch/internal/shared/models"
)

// FleetExchange carries every duty and driver change event.
const FleetExchange = "fleet_topic"

func ConnectToRMQ(cfg *models.RabbitMQConfig) (*amqp091.Connection, *amqp091.Channel, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.User, cfg.Password, cfg.Host, cfg.Port)

	var conn *amqp091.Connection
	var ch *amqp091.Channel
	var err error

	for i := 0; i < 10; i++ {
		conn, err = amqp091.Dial(dsn)
		if err == nil {
			ch, err = conn.Channel()
			if err == nil {
				go monitorConnection(conn, dsn)
				return conn, ch, nil
			}
		}
		log.Printf("RabbitMQ not ready, retrying... (%d/10)", i+1)
		time.Sleep(3 * time.Second)
	}

	return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
}

// DeclareFleetExchange sets up the shared topic exchange. Every service
// calls it on boot; declaration is idempotent.
func DeclareFleetExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		FleetExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
}

func monitorConnection(conn *amqp091.Connection, url string) {
	notifyClose := make(chan *amqp091.Error)
	conn.NotifyClose(notifyClose)

	for {
		err := <-notifyClose
		if err == nil {
			return
		}

		log.Printf("RabbitMQ connection lost: %v. Attempting to reconnect...", err)

		backoff := 5 * time.Second
		maxBackoff := 60 * time.Second

		for {
			time.Sleep(backoff)

			newConn, newErr := amqp091.Dial(url)
			if newErr != nil {
				log.Printf("Reconnection failed: %v. Retrying in %v...", newErr, backoff)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}

			log.Println("Successfully reconnected to RabbitMQ")

			conn = newConn
			notifyClose = make(chan *amqp091.Error)
			conn.NotifyClose(notifyClose)
			break
		}
	}
}

type Publisher struct {
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) *Publisher {
	return &Publisher{ch: ch}
}

func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	err := p.ch.PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishJSON marshals data and publishes it on the fleet exchange.
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return p.Publish(ctx, FleetExchange, routingKey, body)
}
