package contracts

import (
	"context"
	"patient-directory-service/internal/app/models"
	"time"
)

type SessionProvider interface {
	// Resolve returns nil without error for anonymous requests.
	Resolve(ctx context.Context, bearerToken string) (*models.Session, error)
	Issue(ctx context.Context, session *models.Session, expiry time.Duration) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}
