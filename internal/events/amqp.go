package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue is the durable RabbitMQ queue events are mirrored to when a broker
// URL is configured.
const Queue = "pos.events"

// AMQPPublisher mirrors events to a RabbitMQ queue so integrations outside
// the restaurant LAN (printers, back office) can consume them. Each publish
// opens its own connection; the event volume of a single restaurant makes
// that cheap, and it keeps the publisher free of reconnect state.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher creates a publisher for the given broker URL.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// Publish implements Publisher. Errors are logged and swallowed; a broker
// outage must not interrupt order taking.
func (p *AMQPPublisher) Publish(evt Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("amqp: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("amqp: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		log.Printf("amqp: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("amqp: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Timestamp:    evt.At,
		Type:         string(evt.Type),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		Queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		log.Printf("amqp: publish failed: %v", err)
	}
}
