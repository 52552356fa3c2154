package rabbitmq

import (
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestConsume_ProcessesAllMessages(t *testing.T) {
	msgs := make(chan amqp.Delivery, 3)
	msgs <- amqp.Delivery{Body: []byte("one")}
	msgs <- amqp.Delivery{Body: []byte("two")}
	msgs <- amqp.Delivery{Body: []byte("three")}
	close(msgs)

	var handled []string
	consume(msgs, "test-consumer", func(d amqp.Delivery) error {
		handled = append(handled, string(d.Body))
		return nil
	})

	if len(handled) != 3 {
		t.Fatalf("expected 3 handled messages, got %d", len(handled))
	}
}

func TestConsume_HandlerErrorDoesNotStopLoop(t *testing.T) {
	msgs := make(chan amqp.Delivery, 2)
	msgs <- amqp.Delivery{Body: []byte("bad")}
	msgs <- amqp.Delivery{Body: []byte("good")}
	close(msgs)

	var handled int
	consume(msgs, "test-consumer", func(d amqp.Delivery) error {
		handled++
		if string(d.Body) == "bad" {
			return errors.New("unprocessable")
		}
		return nil
	})

	if handled != 2 {
		t.Fatalf("expected the loop to survive a handler error, handled %d of 2", handled)
	}
}

func TestConsume_ReturnsWhenChannelCloses(t *testing.T) {
	msgs := make(chan amqp.Delivery)

	done := make(chan struct{})
	go func() {
		consume(msgs, "test-consumer", func(amqp.Delivery) error { return nil })
		close(done)
	}()

	// A dropped broker connection closes the delivery channel; the loop
	// must return so the caller can react instead of hanging forever.
	close(msgs)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume did not return after the delivery channel closed")
	}
}
