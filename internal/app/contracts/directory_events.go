package contracts

import (
	"context"
	"patient-directory-service/internal/app/models"
)

type DirectoryEventPublisher interface {
	Publish(ctx context.Context, event models.DirectoryEvent) error
}

type DirectoryEventSubscriber interface {
	// Subscribe delivers events from other instances until ctx is done.
	Subscribe(ctx context.Context, handle func(models.DirectoryEvent)) error
}
