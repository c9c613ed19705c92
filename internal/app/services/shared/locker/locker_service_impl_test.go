package locker

import (
	"context"
	"patient-directory-service/internal/app/services/shared/redis"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisLockService(t *testing.T) *lockService {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLockService(redis.NewRedisRepository(client), zap.NewNop()).(*lockService)
}

func TestLockService_TryLockUnlock(t *testing.T) {
	service := newRedisLockService(t)
	ctx := context.Background()

	acquired, owner, err := service.TryLock(ctx, "patients:lock:A-99", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, _, err = service.TryLock(ctx, "patients:lock:A-99", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	assert.Error(t, service.Unlock(ctx, "patients:lock:A-99", "someone-else"))
	assert.NoError(t, service.Unlock(ctx, "patients:lock:A-99", owner))

	acquired, _, err = service.TryLock(ctx, "patients:lock:A-99", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestLocalLockService_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	service := NewLocalLockService().(*localLockService)
	service.now = func() time.Time { return now }
	ctx := context.Background()

	acquired, _, err := service.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, _, _ = service.TryLock(ctx, "k", time.Second)
	assert.False(t, acquired)

	now = now.Add(2 * time.Second)
	acquired, _, _ = service.TryLock(ctx, "k", time.Second)
	assert.True(t, acquired, "expired lock can be taken")
}

func TestAcquire(t *testing.T) {
	t.Run("Serializes holders of the same key", func(t *testing.T) {
		service := NewLocalLockService()
		var inside, maxInside int32
		var wg sync.WaitGroup

		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()

				release, err := Acquire(ctx, service, "k", time.Minute, time.Millisecond)
				if !assert.NoError(t, err) {
					return
				}
				current := atomic.AddInt32(&inside, 1)
				for {
					seen := atomic.LoadInt32(&maxInside)
					if current <= seen || atomic.CompareAndSwapInt32(&maxInside, seen, current) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				assert.NoError(t, release(context.Background()))
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxInside)
	})

	t.Run("Gives up when the context ends", func(t *testing.T) {
		service := NewLocalLockService()
		_, _, err := service.TryLock(context.Background(), "k", time.Minute)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err = Acquire(ctx, service, "k", time.Minute, 5*time.Millisecond)
		assert.True(t, IsNotAcquired(err))
	})
}
