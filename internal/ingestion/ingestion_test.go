package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"msme-logistics/pkg/geo"
)

type fakeTracker struct {
	mu    sync.Mutex
	pings []DriverPing
	err   error
}

func (f *fakeTracker) RecordDriverLocation(_ context.Context, driverID uuid.UUID, location geo.Point, at time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.pings = append(f.pings, DriverPing{DriverID: driverID, Location: location, ReceivedAt: at})
	return 1, nil
}

func (f *fakeTracker) recorded() []DriverPing {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]DriverPing, len(f.pings))
	copy(out, f.pings)
	return out
}

func TestDriverIDFromTopic(t *testing.T) {
	id := uuid.New()

	got, err := DriverIDFromTopic(fmt.Sprintf("drivers/%s/location", id))
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = DriverIDFromTopic("drivers/not-a-uuid/location")
	require.Error(t, err)

	_, err = DriverIDFromTopic("sensors/" + id.String() + "/location")
	require.Error(t, err)

	_, err = DriverIDFromTopic("drivers/" + id.String() + "/status")
	require.Error(t, err)
}

func TestLocationMessageValidate(t *testing.T) {
	valid := LocationMessage{Latitude: 28.6139, Longitude: 77.2090}
	require.NoError(t, valid.Validate())

	cases := []LocationMessage{
		{Latitude: 91, Longitude: 77},
		{Latitude: 28, Longitude: -181},
		{Latitude: 0, Longitude: 0},
	}
	for _, msg := range cases {
		require.Error(t, msg.Validate())
	}

	bad := -5.0
	withAccuracy := LocationMessage{Latitude: 28, Longitude: 77, Accuracy: &bad}
	require.Error(t, withAccuracy.Validate())
}

func TestLocationMessagePointOrdering(t *testing.T) {
	msg := LocationMessage{Latitude: 28.6139, Longitude: 77.2090}
	require.Equal(t, geo.Point{77.2090, 28.6139}, msg.Point())
}

func TestProcessorDeliversPings(t *testing.T) {
	tracker := &fakeTracker{}
	p := NewProcessor(ProcessorConfig{Workers: 2, BufferSize: 16}, tracker, zap.NewNop())
	p.Start()

	driverID := uuid.New()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p.Enqueue(DriverPing{
			DriverID:   driverID,
			Location:   geo.Point{77.2 + float64(i)*0.001, 28.6},
			ReceivedAt: at,
		})
	}
	p.Stop()

	require.Len(t, tracker.recorded(), 5)
	require.EqualValues(t, 5, p.Processed())
	require.EqualValues(t, 0, p.Dropped())
}

func TestProcessorDropsWhenBufferFull(t *testing.T) {
	tracker := &fakeTracker{}
	p := NewProcessor(ProcessorConfig{Workers: 1, BufferSize: 1}, tracker, zap.NewNop())
	// Workers never started, so the buffer holds exactly one ping.

	p.Enqueue(DriverPing{DriverID: uuid.New()})
	p.Enqueue(DriverPing{DriverID: uuid.New()})
	p.Enqueue(DriverPing{DriverID: uuid.New()})

	require.EqualValues(t, 2, p.Dropped())
}

func TestHandleMessageValidatesAndEnqueues(t *testing.T) {
	tracker := &fakeTracker{}
	p := NewProcessor(ProcessorConfig{Workers: 1, BufferSize: 16}, tracker, zap.NewNop())
	p.Start()

	fixed := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	ing := &MQTTIngestion{
		processor: p,
		logger:    zap.NewNop(),
		now:       func() time.Time { return fixed },
	}

	driverID := uuid.New()
	topic := fmt.Sprintf("drivers/%s/location", driverID)

	payload, err := json.Marshal(LocationMessage{Latitude: 28.7041, Longitude: 77.1025})
	require.NoError(t, err)
	ing.handleMessage(topic, payload)

	// Rejected messages never reach the processor.
	ing.handleMessage(topic, []byte("{not json"))
	ing.handleMessage(topic, mustJSON(t, LocationMessage{Latitude: 95, Longitude: 77}))
	ing.handleMessage("drivers/nope/location", payload)

	p.Stop()

	pings := tracker.recorded()
	require.Len(t, pings, 1)
	require.Equal(t, driverID, pings[0].DriverID)
	require.Equal(t, geo.Point{77.1025, 28.7041}, pings[0].Location)
	require.Equal(t, fixed, pings[0].ReceivedAt)
}

func TestHandleMessagePrefersPayloadTimestamp(t *testing.T) {
	tracker := &fakeTracker{}
	p := NewProcessor(ProcessorConfig{Workers: 1, BufferSize: 4}, tracker, zap.NewNop())
	p.Start()

	ing := &MQTTIngestion{
		processor: p,
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) },
	}

	reported := time.Date(2025, 3, 1, 10, 29, 40, 0, time.UTC)
	driverID := uuid.New()
	ing.handleMessage(
		fmt.Sprintf("drivers/%s/location", driverID),
		mustJSON(t, LocationMessage{Latitude: 28.6, Longitude: 77.2, Timestamp: &reported}),
	)
	p.Stop()

	pings := tracker.recorded()
	require.Len(t, pings, 1)
	require.Equal(t, reported, pings[0].ReceivedAt)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
