package locker

import (
	"context"
	"errors"
	"patient-directory-service/internal/app/contracts"
	"time"
)

var errLockNotAcquired = errors.New("lock not acquired before deadline")

// Acquire retries TryLock every interval until it succeeds or ctx ends.
// The returned release function is safe to call once.
func Acquire(ctx context.Context, lockerService contracts.LockerService, key string, ttl, interval time.Duration) (func(context.Context) error, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		acquired, lockValue, err := lockerService.TryLock(ctx, key, ttl)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Join(errLockNotAcquired, ctx.Err())
			}
			return nil, err
		}
		if acquired {
			return func(releaseCtx context.Context) error {
				return lockerService.Unlock(releaseCtx, key, lockValue)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(errLockNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

func IsNotAcquired(err error) bool {
	return errors.Is(err, errLockNotAcquired)
}
