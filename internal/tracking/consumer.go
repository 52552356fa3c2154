package tracking

import (
	"encoding/json"
	"log"

	"github.com/teleponi/rls-buddy/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer handles user lifecycle events that affect tracking data.
type Consumer struct {
	Store *Store
}

// NewConsumer creates a new tracking event consumer.
func NewConsumer(store *Store) *Consumer {
	return &Consumer{Store: store}
}

// HandleMessage processes one user event. A USER_DELETED event wipes all
// tracking records of that user; the bulk delete is a no-op when nothing is
// left, so redelivered events are harmless. Unknown event types are acked
// and ignored so future producers don't wedge the queue.
func (c *Consumer) HandleMessage(delivery amqp.Delivery) error {
	var event models.UserDeletedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Printf("[Tracking] Failed to unmarshal event: %v", err)
		return err
	}

	if event.Type != models.EventUserDeleted {
		log.Printf("[Tracking] Ignoring event: type=%s", event.Type)
		return nil
	}

	log.Printf("[Tracking] Processing event: type=%s user_id=%d", event.Type, event.UserID)

	if err := c.Store.DeleteAllByUser(event.UserID); err != nil {
		log.Printf("[Tracking] Error deleting trackings: %v user_id=%d", err, event.UserID)
		return err
	}

	log.Printf("[Tracking] Deleted all trackings: user_id=%d", event.UserID)
	return nil
}
