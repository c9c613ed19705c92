package directoryevents

import (
	"context"
	"patient-directory-service/internal/app/models"
)

// NoopEvents is used when a single instance serves the directory.
type NoopEvents struct{}

func (NoopEvents) Publish(ctx context.Context, event models.DirectoryEvent) error {
	return nil
}

func (NoopEvents) Subscribe(ctx context.Context, handle func(models.DirectoryEvent)) error {
	<-ctx.Done()
	return nil
}
