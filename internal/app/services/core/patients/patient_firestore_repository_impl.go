package patients

import (
	"context"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type patientFirestoreRepository struct {
	Client     *firestore.Client
	Collection string
	Log        *zap.Logger
	now        func() time.Time
}

func NewPatientFirestoreRepository(client *firestore.Client, logger *zap.Logger) contracts.PatientStore {
	return &patientFirestoreRepository{
		Client:     client,
		Collection: constvars.FirestoreCollectionPatients,
		Log:        logger,
		now:        time.Now,
	}
}

func (r *patientFirestoreRepository) doc(patientID string) *firestore.DocumentRef {
	return r.Client.Collection(r.Collection).Doc(patientID)
}

// List sorts in memory: a Firestore OrderBy skips documents missing the
// ordered field, which would hide legacy records.
func (r *patientFirestoreRepository) List(ctx context.Context) ([]models.Patient, error) {
	documents, err := r.Client.Collection(r.Collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, r.storeError(ctx, err, "list")
	}

	patients := make([]models.Patient, 0, len(documents))
	for _, document := range documents {
		var patient models.Patient
		if err := document.DataTo(&patient); err != nil {
			return nil, r.storeError(ctx, err, "list")
		}
		patient.ID = document.Ref.ID
		patients = append(patients, patient)
	}
	return SortForDisplay(patients), nil
}

func (r *patientFirestoreRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	document, err := r.doc(patientID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, r.storeError(ctx, err, "find")
	}

	patient := new(models.Patient)
	if err := document.DataTo(patient); err != nil {
		return nil, r.storeError(ctx, err, "find")
	}
	patient.ID = document.Ref.ID
	return patient, nil
}

// Upsert reads inside the transaction to decide whether insert-only fields
// are written.
func (r *patientFirestoreRepository) Upsert(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	ref := r.doc(patientID)
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		exists := err == nil
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		data := patch.Fields()
		if !exists {
			createdAt := patch.UpdatedAt
			if createdAt == "" {
				createdAt = utils.FormatTimestamp(r.now())
			}
			data[models.FieldCreatedAt] = createdAt
			if _, ok := data[models.FieldActive]; !ok {
				data[models.FieldActive] = true
			}
		}
		return tx.Set(ref, data, firestore.MergeAll)
	})
	if err != nil {
		return r.storeError(ctx, err, "upsert")
	}
	return nil
}

func buildFirestoreUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

func (r *patientFirestoreRepository) Update(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return r.updateExisting(ctx, patientID, buildFirestoreUpdates(fields), "update")
}

func (r *patientFirestoreRepository) SetActive(ctx context.Context, patientID string, active bool) error {
	return r.updateExisting(ctx, patientID, []firestore.Update{{Path: models.FieldActive, Value: active}}, "set active")
}

// updateExisting relies on Update failing with NotFound for missing
// documents.
func (r *patientFirestoreRepository) updateExisting(ctx context.Context, patientID string, updates []firestore.Update, operation string) error {
	_, err := r.doc(patientID).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return exceptions.ErrPatientNotFoundWrap(err, patientID)
	}
	if err != nil {
		return r.storeError(ctx, err, operation)
	}
	return nil
}

func (r *patientFirestoreRepository) Remove(ctx context.Context, patientID string) error {
	_, err := r.doc(patientID).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return exceptions.ErrPatientNotFoundWrap(err, patientID)
	}
	if err != nil {
		return r.storeError(ctx, err, "remove")
	}
	return nil
}

func (r *patientFirestoreRepository) storeError(ctx context.Context, err error, operation string) error {
	r.Log.Error("patientFirestoreRepository store call failed",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.String(constvars.LoggingStoreDriverKey, constvars.StoreDriverFirestore),
		zap.Error(err),
	)
	return exceptions.ErrStoreUnavailableWrap(err, operation)
}
