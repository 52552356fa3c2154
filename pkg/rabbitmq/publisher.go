package rabbitmq

import (
	"context"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the fanout exchange all user events are broadcast on.
// Every queue bound to it receives a copy of every message.
const ExchangeName = "user_events_exchange"

// Publisher broadcasts messages on the user events exchange.
//
// Each publish dials a fresh connection, declares the exchange and closes
// the connection again. Delivery is fire and forget: no confirm, no retry,
// no persistence when the broker is unreachable.
type Publisher struct {
	URL string
}

// NewPublisher creates a publisher for the given broker URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url}
}

func declareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"fanout",
		false, // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// Publish broadcasts a message body to all queues bound to the exchange.
// Fanout exchanges ignore the routing key, so none is set.
func (p *Publisher) Publish(body []byte) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := declareExchange(ch); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Printf("[Publisher] Broadcasting event on exchange %s", ExchangeName)

	return ch.PublishWithContext(
		ctx,
		ExchangeName,
		"",    // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
