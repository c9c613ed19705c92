package config

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Firestore      *firestore.Client
	Redis          *redis.Client
	Minio          *minio.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop if set will be called during Shutdown to stop background workers
	WorkerStop func()
	// EmbeddedRedisStop stops the in-process Redis of the memory driver
	EmbeddedRedisStop func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped background workers")
	}

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	if b.EmbeddedRedisStop != nil {
		b.EmbeddedRedisStop()
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Disconnect(ctx); err != nil {
			return err
		}
		log.Println("Successfully disconnecting MongoDB")
	}

	if b.Firestore != nil {
		if err := b.Firestore.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing Firestore")
	}

	// zap returns an error syncing stdout on some platforms
	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")
	return nil
}
