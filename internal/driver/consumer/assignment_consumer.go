package consumer

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/mq"
	"fleet-dispatch/internal/shared/ws"
)

// AssignmentConsumer pushes duty assignments and cancellations from the
// fleet exchange to the connected driver's socket.
type AssignmentConsumer struct {
	channel   *amqp.Channel
	queue     string
	wsManager *ws.Manager
	logger    *logger.Logger
}

type taskEvent struct {
	TaskID    string `json:"task_id"`
	DriverID  string `json:"driver_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func NewAssignmentConsumer(ch *amqp.Channel, wsManager *ws.Manager, log *logger.Logger) *AssignmentConsumer {
	return &AssignmentConsumer{
		channel:   ch,
		queue:     "driver_assignments",
		wsManager: wsManager,
		logger:    log,
	}
}

func (c *AssignmentConsumer) Start() error {
	q, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return err
	}

	for _, key := range []string{"task.status.assigned", "task.cancelled"} {
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
	c.logger.Info("AssignmentConsumer", "driver_assignments consumer started")
	return nil
}

func (c *AssignmentConsumer) handle(msg amqp.Delivery) {
	var event taskEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Warn("AssignmentConsumer", "invalid JSON: "+err.Error())
		msg.Nack(false, false)
		return
	}

	update := map[string]interface{}{
		"task_id": event.TaskID,
		"status":  event.Status,
	}
	switch msg.RoutingKey {
	case "task.cancelled":
		update["type"] = "duty_cancelled"
		update["message"] = "Your duty has been cancelled"
	default:
		update["type"] = "duty_assigned"
		update["message"] = "You have a new duty"
	}

	if err := c.wsManager.SendTo(event.DriverID, update); err != nil {
		c.logger.Warn("AssignmentConsumer", "failed to push to driver "+event.DriverID+": "+err.Error())
	}

	msg.Ack(false)
}
