package rabbitmq

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes a delivered message. A returned error means the
// message could not be applied; it is logged and the message is dropped.
// One bad message must never block the queue.
type MessageHandler func(delivery amqp.Delivery) error

// SetupConsumer binds a private queue to the fanout exchange and starts
// consuming in a background goroutine.
//
// The queue is server-named and exclusive: every consumer instance gets its
// own copy of every broadcast. This is an intentional fanout, not a shared
// work queue. Messages are processed strictly one at a time per consumer.
func SetupConsumer(conn *Connection, consumerName string, handler MessageHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := declareExchange(ch); err != nil {
		return err
	}

	// Server-named exclusive queue, deleted when this consumer goes away.
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	if err := ch.QueueBind(q.Name, "", ExchangeName, false, nil); err != nil {
		return err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(
		q.Name,
		consumerName,
		false, // auto-ack = false (manual ack)
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		consume(msgs, consumerName, handler)
		// The channel only closes when the broker connection is gone.
		// Without the consumer the HTTP listener would keep serving while
		// deletion events pile up unseen, so die loudly instead.
		log.Fatalf("[%s] Message channel closed, broker connection lost", consumerName)
	}()

	log.Printf("[%s] Consumer started, bound queue %s to exchange %s", consumerName, q.Name, ExchangeName)
	return nil
}

// consume drains the delivery channel until it closes. Handler errors are
// logged and the message is acked anyway.
func consume(msgs <-chan amqp.Delivery, consumerName string, handler MessageHandler) {
	for msg := range msgs {
		if err := handler(msg); err != nil {
			log.Printf("[%s] Error processing message: %v, dropping", consumerName, err)
		}
		_ = msg.Ack(false)
	}
}
