package patients

import (
	"context"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"sync"
	"time"
)

type patientMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.Patient
	now     func() time.Time
}

// NewPatientMemoryRepository keeps records in process memory. Records
// passed in are loaded as they are, which lets callers seed legacy shapes.
func NewPatientMemoryRepository(seed ...models.Patient) contracts.PatientStore {
	repo := &patientMemoryRepository{
		records: make(map[string]models.Patient, len(seed)),
		now:     time.Now,
	}
	for _, record := range seed {
		repo.records[record.ID] = record.Clone()
	}
	return repo
}

func (r *patientMemoryRepository) List(ctx context.Context) ([]models.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrStoreUnavailableWrap(err, "list")
	}

	r.mu.RLock()
	patients := make([]models.Patient, 0, len(r.records))
	for _, record := range r.records {
		patients = append(patients, record.Clone())
	}
	r.mu.RUnlock()

	return SortForDisplay(patients), nil
}

func (r *patientMemoryRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrStoreUnavailableWrap(err, "find")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[patientID]
	if !ok {
		return nil, nil
	}
	clone := record.Clone()
	return &clone, nil
}

func (r *patientMemoryRepository) Upsert(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	if err := ctx.Err(); err != nil {
		return exceptions.ErrStoreUnavailableWrap(err, "upsert")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[patientID]
	if !exists {
		record = models.Patient{ID: patientID, CreatedAt: patch.UpdatedAt}
		if record.CreatedAt == "" {
			record.CreatedAt = utils.FormatTimestamp(r.now())
		}
		if patch.Active == nil {
			active := true
			record.Active = &active
		}
	}
	patch.ApplyTo(&record)
	r.records[patientID] = record
	return nil
}

func (r *patientMemoryRepository) Update(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	return r.mutate(ctx, patientID, "update", func(record *models.Patient) {
		patch.ApplyTo(record)
	})
}

func (r *patientMemoryRepository) SetActive(ctx context.Context, patientID string, active bool) error {
	return r.mutate(ctx, patientID, "set active", func(record *models.Patient) {
		record.Active = &active
	})
}

func (r *patientMemoryRepository) mutate(ctx context.Context, patientID, operation string, apply func(*models.Patient)) error {
	if err := ctx.Err(); err != nil {
		return exceptions.ErrStoreUnavailableWrap(err, operation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[patientID]
	if !ok {
		return exceptions.ErrPatientNotFoundWrap(nil, patientID)
	}
	apply(&record)
	r.records[patientID] = record
	return nil
}

func (r *patientMemoryRepository) Remove(ctx context.Context, patientID string) error {
	if err := ctx.Err(); err != nil {
		return exceptions.ErrStoreUnavailableWrap(err, "remove")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[patientID]; !ok {
		return exceptions.ErrPatientNotFoundWrap(nil, patientID)
	}
	delete(r.records, patientID)
	return nil
}
