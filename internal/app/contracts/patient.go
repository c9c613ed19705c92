package contracts

import (
	"context"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/dto/requests"
)

// PatientStore is the remote patient collection. Remote failures surface
// as exceptions.ErrStoreUnavailable; implementations never retry.
type PatientStore interface {
	// List returns every record ordered by full name.
	List(ctx context.Context) ([]models.Patient, error)
	// FindByID returns nil without error when the record does not exist.
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
	// Upsert merges the patch, creating the record if needed. createdAt is
	// written only when the record is created.
	Upsert(ctx context.Context, patientID string, patch *models.PatientPatch) error
	// Update merges the patch into an existing record.
	Update(ctx context.Context, patientID string, patch *models.PatientPatch) error
	SetActive(ctx context.Context, patientID string, active bool) error
	Remove(ctx context.Context, patientID string) error
}

type PatientUsecase interface {
	Search(ctx context.Context, filters requests.DirectoryFilters) ([]models.Patient, error)
	Get(ctx context.Context, patientID string) (*models.Patient, error)
	Save(ctx context.Context, form *requests.CollectedPatient) (*models.Patient, error)
	SetActive(ctx context.Context, patientID string, active, confirmed bool) (*models.Patient, error)
	Remove(ctx context.Context, patientID string, confirmed bool) error
	History(ctx context.Context, patientID string) ([]models.Appointment, error)
	AttachPhoto(ctx context.Context, upload *requests.PhotoUpload) (*models.Patient, error)
	Export(ctx context.Context, filters requests.DirectoryFilters) ([]byte, error)
	// Invalidate drops the cached snapshot so the next read refreshes.
	Invalidate()
	// Resync refreshes the cached snapshot from the store.
	Resync(ctx context.Context) error
}
