package messaging

import (
	"log"
	"net/url"
	"patient-directory-service/internal/app/config"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const dialAttempts = 3

// NewRabbitMQ dials the broker carrying directory change events. The
// connection is named after the service so it is easy to spot in the
// management UI.
func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	brokerURL := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(driverConfig.RabbitMQ.Username, driverConfig.RabbitMQ.Password),
		Host:   driverConfig.RabbitMQ.Host + ":" + driverConfig.RabbitMQ.Port,
		Path:   "/",
	}
	amqpConfig := amqp091.Config{
		Heartbeat:  10 * time.Second,
		Properties: amqp091.Table{"connection_name": "patient-directory-service"},
	}

	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err := amqp091.DialConfig(brokerURL.String(), amqpConfig)
		if err == nil {
			log.Printf("Connected to rabbitMQ at %s", brokerURL.Host)
			return conn
		}
		lastErr = err
		log.Printf("rabbitMQ dial attempt %d/%d failed: %v", attempt, dialAttempts, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	log.Fatalf("Giving up on rabbitMQ at %s: %v", brokerURL.Host, lastErr)
	return nil
}
