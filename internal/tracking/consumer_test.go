package tracking

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	amqp "github.com/rabbitmq/amqp091-go"
)

func newTestConsumer(t *testing.T) (*Consumer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewConsumer(NewStore(db)), mock
}

func TestConsumer_UserDeleted(t *testing.T) {
	consumer, mock := newTestConsumer(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sleeps WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM days WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := consumer.HandleMessage(amqp.Delivery{Body: []byte(`{"type":"USER_DELETED","user_id":7}`)})
	if err != nil {
		t.Fatalf("failed to handle event: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestConsumer_UserDeletedIsIdempotent(t *testing.T) {
	consumer, mock := newTestConsumer(t)

	// A redelivered event finds nothing left to delete and still succeeds.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sleeps WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM days WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := consumer.HandleMessage(amqp.Delivery{Body: []byte(`{"type":"USER_DELETED","user_id":7}`)})
	if err != nil {
		t.Fatalf("expected duplicate event to succeed, got %v", err)
	}
}

func TestConsumer_UnknownEventType(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	err := consumer.HandleMessage(amqp.Delivery{Body: []byte(`{"type":"USER_RENAMED","user_id":7}`)})
	if err != nil {
		t.Fatalf("expected unknown event type to be ignored, got %v", err)
	}
}

func TestConsumer_MalformedPayload(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	if err := consumer.HandleMessage(amqp.Delivery{Body: []byte(`{not json`)}); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestConsumer_DatabaseError(t *testing.T) {
	consumer, mock := newTestConsumer(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sleeps WHERE user_id").
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := consumer.HandleMessage(amqp.Delivery{Body: []byte(`{"type":"USER_DELETED","user_id":7}`)})
	if err == nil {
		t.Fatal("expected error when the database fails")
	}
}
