package patients

import (
	"context"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Snapshot is an immutable view of the whole patient collection.
type Snapshot struct {
	Records    []models.Patient
	Generation uint64
	FetchedAt  time.Time
	index      map[string]int
}

func newSnapshot(records []models.Patient, generation uint64, fetchedAt time.Time) *Snapshot {
	index := make(map[string]int, len(records))
	for i, record := range records {
		index[record.ID] = i
	}
	return &Snapshot{Records: records, Generation: generation, FetchedAt: fetchedAt, index: index}
}

// Find returns a copy of the record, or nil.
func (s *Snapshot) Find(patientID string) *models.Patient {
	if s == nil {
		return nil
	}
	i, ok := s.index[patientID]
	if !ok {
		return nil
	}
	record := s.Records[i].Clone()
	return &record
}

type refreshCall struct {
	generation uint64
	done       chan struct{}
	snapshot   *Snapshot
	err        error
}

// DirectoryCache holds the last snapshot read from the store. Only one
// store read runs at a time: callers needing the generation being read
// wait for it, callers needing a newer one wait and then share a single
// follow-up read.
type DirectoryCache struct {
	store   contracts.PatientStore
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time

	snapshot atomic.Pointer[Snapshot]

	mu         sync.Mutex
	generation uint64
	inflight   *refreshCall
}

func NewDirectoryCache(store contracts.PatientStore, timeout time.Duration, logger *zap.Logger) *DirectoryCache {
	return &DirectoryCache{
		store:   store,
		log:     logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Current returns the last snapshot without touching the store. It is nil
// before the first successful refresh.
func (c *DirectoryCache) Current() *Snapshot {
	return c.snapshot.Load()
}

// Invalidate makes the next Read go to the store.
func (c *DirectoryCache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()
}

func (c *DirectoryCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Read returns the current snapshot if nothing invalidated it.
func (c *DirectoryCache) Read(ctx context.Context) (*Snapshot, error) {
	generation := c.Generation()
	if snapshot := c.snapshot.Load(); snapshot != nil && snapshot.Generation >= generation {
		return snapshot, nil
	}
	return c.refreshAt(ctx, generation)
}

// Refresh returns a snapshot read after every invalidation so far. A
// failed read leaves the previous snapshot in place.
func (c *DirectoryCache) Refresh(ctx context.Context) (*Snapshot, error) {
	return c.refreshAt(ctx, c.Generation())
}

func (c *DirectoryCache) refreshAt(ctx context.Context, generation uint64) (*Snapshot, error) {
	waited := false
	for {
		c.mu.Lock()
		if call := c.inflight; call != nil {
			c.mu.Unlock()
			select {
			case <-call.done:
			case <-ctx.Done():
				return nil, exceptions.ErrStoreUnavailableWrap(ctx.Err(), "refresh")
			}
			if call.generation >= generation {
				return call.snapshot, call.err
			}
			waited = true
			continue
		}

		// a waiter may wake after the follow-up read already finished
		if snapshot := c.snapshot.Load(); waited && snapshot != nil && snapshot.Generation >= generation {
			c.mu.Unlock()
			return snapshot, nil
		}

		call := &refreshCall{generation: c.generation, done: make(chan struct{})}
		c.inflight = call
		c.mu.Unlock()

		c.run(ctx, call)
		return call.snapshot, call.err
	}
}

// run detaches from the caller's cancellation so waiters sharing the read
// are not failed by one impatient caller.
func (c *DirectoryCache) run(ctx context.Context, call *refreshCall) {
	readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := c.now()
	records, err := c.store.List(readCtx)

	c.mu.Lock()
	if err != nil {
		call.err = err
	} else {
		call.snapshot = newSnapshot(records, call.generation, c.now())
		c.snapshot.Store(call.snapshot)
	}
	c.inflight = nil
	c.mu.Unlock()
	close(call.done)

	if err != nil {
		c.log.Error("DirectoryCache.run store list failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Uint64(constvars.LoggingGenerationKey, call.generation),
			zap.Error(err),
		)
		return
	}
	c.log.Debug("DirectoryCache.run refreshed snapshot",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Uint64(constvars.LoggingGenerationKey, call.generation),
		zap.Int(constvars.LoggingCountKey, len(records)),
		zap.Duration(constvars.LoggingDurationKey, c.now().Sub(start)),
	)
}
