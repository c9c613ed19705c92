package directoryevents

import (
	"context"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	_ contracts.DirectoryEventPublisher  = (*RabbitMQEvents)(nil)
	_ contracts.DirectoryEventSubscriber = (*RabbitMQEvents)(nil)
	_ contracts.DirectoryEventPublisher  = NoopEvents{}
)

func TestDispatch(t *testing.T) {
	events := &RabbitMQEvents{Origin: "instance-a", Log: zap.NewNop()}

	var received []models.DirectoryEvent
	handle := func(event models.DirectoryEvent) { received = append(received, event) }

	own, err := json.Marshal(models.DirectoryEvent{Type: "patient.saved", PatientID: "A-99", Origin: "instance-a"})
	require.NoError(t, err)
	other, err := json.Marshal(models.DirectoryEvent{Type: "patient.saved", PatientID: "B-1", Origin: "instance-b"})
	require.NoError(t, err)

	events.dispatch(own, handle)
	events.dispatch([]byte("not json"), handle)
	events.dispatch(other, handle)

	require.Len(t, received, 1, "own and undecodable events are dropped")
	assert.Equal(t, "B-1", received[0].PatientID)
}

func TestNoopEventsSubscribeReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.NoError(t, NoopEvents{}.Subscribe(ctx, func(models.DirectoryEvent) {}))
}
