package locker

import (
	"context"
	"fmt"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
)

type localLock struct {
	value     string
	expiresAt time.Time
}

// localLockService serves the memory store driver, where a single process
// owns all data.
type localLockService struct {
	mu    sync.Mutex
	locks map[string]localLock
	now   func() time.Time
}

func NewLocalLockService() contracts.LockerService {
	return &localLockService{
		locks: make(map[string]localLock),
		now:   time.Now,
	}
}

func (s *localLockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if err := ctx.Err(); err != nil {
		return false, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.locks[key]; ok && s.now().Before(current.expiresAt) {
		return false, "", nil
	}

	lockValue := uuid.NewString()
	s.locks[key] = localLock{value: lockValue, expiresAt: s.now().Add(expiration)}
	return true, lockValue, nil
}

func (s *localLockService) Unlock(ctx context.Context, key, lockValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.locks[key]
	if !ok || current.value != lockValue {
		return exceptions.ErrRedisUnlock(fmt.Errorf("lock %s expired or owned by another client", key))
	}
	delete(s.locks, key)
	return nil
}
