package contracts

import (
	"context"
	"time"
)

// LockerService serializes writers of one patient record across instances.
// TryLock reports whether the key was taken and returns the token that must
// be presented to release it.
type LockerService interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (acquired bool, token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
