package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEvent() Event {
	return Event{
		ID:         "11111111-2222-3333-4444-555555555555",
		Endpoint:   "bookings.create",
		UserID:     3,
		ScheduleID: 7,
		Outcome:    "confirmed",
		ElapsedMS:  12.5,
		Timestamp:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestWritePushesAndTrims(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	e := fixedEvent()
	payload, err := json.Marshal(e)
	require.NoError(t, err)

	mock.ExpectTxPipeline()
	mock.ExpectLPush(eventsKey, payload).SetVal(1)
	mock.ExpectLTrim(eventsKey, 0, maxStoredEvents-1).SetVal("OK")
	mock.ExpectTxPipelineExec()

	l := &Logger{rdb: rdb}
	require.NoError(t, l.write(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishAndCloseDrainTheQueue(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	e := fixedEvent()
	payload, err := json.Marshal(e)
	require.NoError(t, err)

	mock.ExpectTxPipeline()
	mock.ExpectLPush(eventsKey, payload).SetVal(1)
	mock.ExpectLTrim(eventsKey, 0, maxStoredEvents-1).SetVal("OK")
	mock.ExpectTxPipelineExec()

	l := NewLogger(rdb)
	l.Publish(e)
	l.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerSwallowsSinkFailure(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	// No expectations registered: every write fails. Publish and Close must
	// still return normally.
	l := NewLogger(rdb)
	assert.NotPanics(t, func() {
		l.Publish(Event{Endpoint: "bookings.create", Outcome: "confirmed"})
		l.Close()
	})
}

func TestRecentParsesStoredEvents(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	e := fixedEvent()
	payload, err := json.Marshal(e)
	require.NoError(t, err)

	mock.ExpectLRange(eventsKey, 0, 1).SetVal([]string{string(payload), "not-json"})

	l := &Logger{rdb: rdb}
	got, err := l.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 1, "malformed entries are skipped")
	assert.Equal(t, e.ID, got[0].ID)
	assert.Equal(t, e.Outcome, got[0].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarizeAggregatesStoredEvents(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	stored := []Event{
		{ID: "a", Endpoint: "trains.search", Method: "GET", Outcome: "ok", Status: 200},
		{ID: "b", Endpoint: "trains.search", Method: "GET", Outcome: "error", Status: 500},
		{ID: "c", Endpoint: "bookings.create", Outcome: "confirmed"},
	}
	raw := make([]string, 0, len(stored))
	for _, e := range stored {
		payload, err := json.Marshal(e)
		require.NoError(t, err)
		raw = append(raw, string(payload))
	}
	mock.ExpectLRange(eventsKey, 0, maxStoredEvents-1).SetVal(raw)

	l := &Logger{rdb: rdb}
	got, err := l.Summarize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Errors)
	assert.InDelta(t, 0.5, got.ErrorRate, 1e-9, "rate counts only events with an HTTP status")
	assert.Equal(t, 2, got.ByEndpoint["trains.search"])
	assert.Equal(t, 1, got.ByOutcome["confirmed"])
}

func TestNilLoggerPublishIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Publish(Event{Outcome: "confirmed"})
	})
}
