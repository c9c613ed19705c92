package appointments

import (
	"context"
	"testing"

	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func TestBuildHistoryFilter(t *testing.T) {
	ref := models.PatientRef{ID: "p-1", FullName: " Ana Lopez "}

	filter, ok := buildHistoryFilter(constvars.AppointmentMatchByName, ref)
	assert.True(t, ok)
	assert.Equal(t, bson.M{"patientName": "Ana Lopez"}, filter)

	filter, ok = buildHistoryFilter(constvars.AppointmentMatchByID, ref)
	assert.True(t, ok)
	assert.Equal(t, bson.M{"patientId": "p-1"}, filter)

	_, ok = buildHistoryFilter(constvars.AppointmentMatchByName, models.PatientRef{ID: "p-1"})
	assert.False(t, ok)
}

func TestAppointmentMongoRepository_ListByPatient(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes history", func(mt *mtest.T) {
		repo := &appointmentMongoRepository{Collection: mt.Coll, MatchBy: constvars.AppointmentMatchByName, Log: zap.NewNop()}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "date", Value: "2026-02-01"}, {Key: "startTime", Value: "10:30"}, {Key: "doctor", Value: "Dr. Soto"}},
			bson.D{{Key: "date", Value: "2026-01-05"}, {Key: "startTime", Value: "09:00"}, {Key: "status", Value: "done"}},
		))

		appointments, err := repo.ListByPatient(context.Background(), models.PatientRef{FullName: "Ana Lopez"})
		require.NoError(t, err)
		require.Len(t, appointments, 2)
		assert.Equal(t, "Dr. Soto", appointments[0].Doctor)
		assert.Equal(t, "done", appointments[1].Status)
	})

	mt.Run("skips store without a match key", func(mt *mtest.T) {
		repo := &appointmentMongoRepository{Collection: mt.Coll, MatchBy: constvars.AppointmentMatchByID, Log: zap.NewNop()}

		appointments, err := repo.ListByPatient(context.Background(), models.PatientRef{FullName: "Ana"})
		require.NoError(t, err)
		assert.Empty(t, appointments)
	})
}
