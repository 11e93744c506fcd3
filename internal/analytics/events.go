// Package analytics delivers best-effort request and booking events to
// Redis. Nothing in here may fail a booking: publishing is asynchronous,
// errors are counted and logged, never returned to the caller.
package analytics

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"railbook/internal/monitoring"
)

type Event struct {
	ID         string    `json:"id"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	ScheduleID int64     `json:"schedule_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Status     int       `json:"status,omitempty"`
	ElapsedMS  float64   `json:"elapsed_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	eventsKey       = "analytics:events"
	maxStoredEvents = 10_000
	writeTimeout    = 2 * time.Second
)

// Logger is the fire-and-forget event sink. Publish enqueues; a single
// worker drains the queue into a capped Redis list.
type Logger struct {
	rdb *redis.Client
	ch  chan Event
	wg  sync.WaitGroup
}

func NewLogger(rdb *redis.Client) *Logger {
	l := &Logger{
		rdb: rdb,
		ch:  make(chan Event, 256),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Publish never blocks and never reports failure. A full queue drops the
// event; the drop is visible only as a metric.
func (l *Logger) Publish(e Event) {
	if l == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	select {
	case l.ch <- e:
	default:
		monitoring.IncAnalyticsDropped()
	}
}

func (l *Logger) run() {
	defer l.wg.Done()
	for e := range l.ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := l.write(ctx, e); err != nil {
			monitoring.IncAnalyticsDropped()
			log.Printf("[ANALYTICS] action=publish msg=event dropped: %v", err)
		}
		cancel()
	}
}

func (l *Logger) write(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := l.rdb.TxPipeline()
	pipe.LPush(ctx, eventsKey, payload)
	pipe.LTrim(ctx, eventsKey, 0, maxStoredEvents-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns the newest events, most recent first.
func (l *Logger) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := l.rdb.LRange(ctx, eventsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(raw))
	for _, item := range raw {
		var e Event
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Stats is an aggregate view over the stored events.
type Stats struct {
	Total      int            `json:"total"`
	Errors     int            `json:"errors"`
	ErrorRate  float64        `json:"errorRate"`
	ByEndpoint map[string]int `json:"byEndpoint"`
	ByOutcome  map[string]int `json:"byOutcome"`
}

// Summarize aggregates whatever the capped list currently holds: totals per
// endpoint and outcome, plus the error rate over events carrying an HTTP
// status.
func (l *Logger) Summarize(ctx context.Context) (Stats, error) {
	events, err := l.Recent(ctx, maxStoredEvents)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		Total:      len(events),
		ByEndpoint: make(map[string]int),
		ByOutcome:  make(map[string]int),
	}
	var withStatus int
	for _, e := range events {
		s.ByEndpoint[e.Endpoint]++
		s.ByOutcome[e.Outcome]++
		if e.Status > 0 {
			withStatus++
			if e.Status >= 400 {
				s.Errors++
			}
		}
	}
	if withStatus > 0 {
		s.ErrorRate = float64(s.Errors) / float64(withStatus)
	}
	return s, nil
}

// Close drains the queue and stops the worker.
func (l *Logger) Close() {
	close(l.ch)
	l.wg.Wait()
}
