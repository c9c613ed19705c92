package patients

import (
	"context"
	"errors"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type patientMongoRepository struct {
	Collection *mongo.Collection
	Log        *zap.Logger
	now        func() time.Time
}

func NewPatientMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.PatientStore {
	return &patientMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionPatients),
		Log:        logger,
		now:        time.Now,
	}
}

// EnsurePatientIndexes creates the indexes List and the document number
// lookups rely on. It is safe to run repeatedly.
func EnsurePatientIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	return db.Collection(constvars.MongoCollectionPatients).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: models.FieldFullName, Value: 1}, {Key: models.FieldID, Value: 1}}},
		{Keys: bson.D{{Key: models.FieldDocumentNumber, Value: 1}}},
		{Keys: bson.D{{Key: models.FieldDoctor, Value: 1}, {Key: models.FieldActive, Value: 1}}},
	})
}

func (r *patientMongoRepository) List(ctx context.Context) ([]models.Patient, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: models.FieldFullName, Value: 1}, {Key: models.FieldID, Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, r.storeError(ctx, err, "list")
	}
	defer cursor.Close(ctx)

	patients := make([]models.Patient, 0)
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, r.storeError(ctx, err, "list")
	}
	return patients, nil
}

func (r *patientMongoRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	patient := new(models.Patient)
	err := r.Collection.FindOne(ctx, bson.M{models.FieldID: patientID}).Decode(patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.storeError(ctx, err, "find")
	}
	return patient, nil
}

// buildUpsertDocument writes the patch with $set and keeps insert-only
// fields in $setOnInsert so later merges never overwrite them.
func buildUpsertDocument(patch *models.PatientPatch, now time.Time) bson.M {
	set := bson.M(patch.Fields())
	createdAt := patch.UpdatedAt
	if createdAt == "" {
		createdAt = utils.FormatTimestamp(now)
	}

	setOnInsert := bson.M{models.FieldCreatedAt: createdAt}
	if _, ok := set[models.FieldActive]; !ok {
		setOnInsert[models.FieldActive] = true
	}

	update := bson.M{"$setOnInsert": setOnInsert}
	if len(set) > 0 {
		update["$set"] = set
	}
	return update
}

func (r *patientMongoRepository) Upsert(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	update := buildUpsertDocument(patch, r.now())
	_, err := r.Collection.UpdateOne(ctx, bson.M{models.FieldID: patientID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return r.storeError(ctx, err, "upsert")
	}
	return nil
}

func (r *patientMongoRepository) Update(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return r.updateExisting(ctx, patientID, bson.M{"$set": bson.M(fields)}, "update")
}

func (r *patientMongoRepository) SetActive(ctx context.Context, patientID string, active bool) error {
	return r.updateExisting(ctx, patientID, bson.M{"$set": bson.M{models.FieldActive: active}}, "set active")
}

func (r *patientMongoRepository) updateExisting(ctx context.Context, patientID string, update bson.M, operation string) error {
	result, err := r.Collection.UpdateOne(ctx, bson.M{models.FieldID: patientID}, update)
	if err != nil {
		return r.storeError(ctx, err, operation)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrPatientNotFoundWrap(nil, patientID)
	}
	return nil
}

func (r *patientMongoRepository) Remove(ctx context.Context, patientID string) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{models.FieldID: patientID})
	if err != nil {
		return r.storeError(ctx, err, "remove")
	}
	if result.DeletedCount == 0 {
		return exceptions.ErrPatientNotFoundWrap(nil, patientID)
	}
	return nil
}

func (r *patientMongoRepository) storeError(ctx context.Context, err error, operation string) error {
	r.Log.Error("patientMongoRepository store call failed",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.Error(err),
	)
	return exceptions.ErrStoreUnavailableWrap(err, operation)
}
