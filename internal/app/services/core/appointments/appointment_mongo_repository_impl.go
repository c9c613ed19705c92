package appointments

import (
	"context"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type appointmentMongoRepository struct {
	Collection *mongo.Collection
	MatchBy    string
	Log        *zap.Logger
}

// NewAppointmentMongoRepository reads the scheduling collection. matchBy
// selects whether appointments are linked by patient name or by id.
func NewAppointmentMongoRepository(db *mongo.Database, matchBy string, logger *zap.Logger) contracts.AppointmentHistory {
	return &appointmentMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionAppointments),
		MatchBy:    matchBy,
		Log:        logger,
	}
}

func buildHistoryFilter(matchBy string, patient models.PatientRef) (bson.M, bool) {
	if matchBy == constvars.AppointmentMatchByID {
		id := strings.TrimSpace(patient.ID)
		return bson.M{"patientId": id}, id != ""
	}
	name := strings.TrimSpace(patient.FullName)
	return bson.M{"patientName": name}, name != ""
}

func (r *appointmentMongoRepository) ListByPatient(ctx context.Context, patient models.PatientRef) ([]models.Appointment, error) {
	filter, ok := buildHistoryFilter(r.MatchBy, patient)
	if !ok {
		return []models.Appointment{}, nil
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "startTime", Value: -1}}).
		SetProjection(bson.M{"_id": 0})
	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, r.historyError(ctx, err, patient)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, r.historyError(ctx, err, patient)
	}
	return appointments, nil
}

func (r *appointmentMongoRepository) historyError(ctx context.Context, err error, patient models.PatientRef) error {
	r.Log.Error("appointmentMongoRepository.ListByPatient failed",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
		zap.Error(err),
	)
	return exceptions.ErrAppointmentHistory(err)
}
