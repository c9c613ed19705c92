package directoryevents

import (
	"context"
	"fmt"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQEvents fans directory events out to every running instance.
// Events carrying this instance's origin are not delivered back to it.
type RabbitMQEvents struct {
	Conn     *amqp091.Connection
	Exchange string
	Origin   string
	Log      *zap.Logger

	mu      sync.Mutex
	channel *amqp091.Channel
}

func NewRabbitMQEvents(conn *amqp091.Connection, exchange, origin string, logger *zap.Logger) (*RabbitMQEvents, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(channel, exchange); err != nil {
		channel.Close()
		return nil, err
	}

	return &RabbitMQEvents{
		Conn:     conn,
		Exchange: exchange,
		Origin:   origin,
		Log:      logger,
		channel:  channel,
	}, nil
}

func declareExchange(channel *amqp091.Channel, exchange string) error {
	err := channel.ExchangeDeclare(exchange, amqp091.ExchangeFanout, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

func (r *RabbitMQEvents) Publish(ctx context.Context, event models.DirectoryEvent) error {
	if event.Origin == "" {
		event.Origin = r.Origin
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(ctx, r.Exchange, "", false, false, amqp091.Publishing{
		ContentType: constvars.MIMEApplicationJSON,
		MessageId:   uuid.NewString(),
		Timestamp:   event.OccurredAt,
		Type:        event.Type,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Subscribe binds an exclusive queue to the exchange and blocks until ctx
// is done or the broker closes the delivery channel.
func (r *RabbitMQEvents) Subscribe(ctx context.Context, handle func(models.DirectoryEvent)) error {
	channel, err := r.Conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	if err := declareExchange(channel, r.Exchange); err != nil {
		return err
	}
	queue, err := channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := channel.QueueBind(queue.Name, "", r.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := channel.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			r.dispatch(delivery.Body, handle)
		}
	}
}

func (r *RabbitMQEvents) dispatch(body []byte, handle func(models.DirectoryEvent)) {
	var event models.DirectoryEvent
	if err := json.Unmarshal(body, &event); err != nil {
		r.Log.Warn("RabbitMQEvents.dispatch dropped undecodable event", zap.Error(err))
		return
	}
	if event.Origin == r.Origin {
		return
	}

	r.Log.Debug("RabbitMQEvents.dispatch received event",
		zap.String(constvars.LoggingEventTypeKey, event.Type),
		zap.String(constvars.LoggingPatientIDKey, event.PatientID),
	)
	handle(event)
}

func (r *RabbitMQEvents) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel.Close()
}
