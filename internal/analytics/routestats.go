package analytics

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/elgopher/batch"
	"github.com/redis/go-redis/v9"
)

const routeRankKey = "analytics:route_rank"

// RouteStats counts searches per (source, destination) pair. Increments for
// the same route are batched in memory and flushed as one ZINCRBY, so a hot
// route costs one Redis round trip per batch window instead of one per
// search.
type RouteStats struct {
	rdb  *redis.Client
	proc *batch.Processor[*routeCounter]
}

type routeCounter struct {
	pending int
}

func NewRouteStats(rdb *redis.Client) *RouteStats {
	rs := &RouteStats{rdb: rdb}
	rs.proc = batch.StartProcessor(batch.Options[*routeCounter]{
		MinDuration: 100 * time.Millisecond,
		MaxDuration: time.Second,
		LoadResource: func(_ context.Context, _ string) (*routeCounter, error) {
			return &routeCounter{}, nil
		},
		SaveResource: rs.flush,
	})
	return rs
}

func (rs *RouteStats) flush(ctx context.Context, key string, c *routeCounter) error {
	if c == nil || c.pending == 0 {
		return nil
	}
	return rs.rdb.ZIncrBy(ctx, routeRankKey, float64(c.pending), key).Err()
}

// Record counts one search for the route. Best-effort: runs off the request
// goroutine and swallows sink failures.
func (rs *RouteStats) Record(source, destination string) {
	key := routeKey(source, destination)
	go func() {
		if err := rs.proc.Run(context.Background(), key, func(c *routeCounter) { c.pending++ }); err != nil {
			log.Printf("[ANALYTICS] action=route_count msg=increment dropped: %v", err)
		}
	}()
}

type RouteCount struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Searches    int64  `json:"searchCount"`
}

// Top returns the most searched routes, busiest first.
func (rs *RouteStats) Top(ctx context.Context, limit int) ([]RouteCount, error) {
	if limit <= 0 {
		limit = 5
	}
	members, err := rs.rdb.ZRevRangeWithScores(ctx, routeRankKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]RouteCount, 0, len(members))
	for _, m := range members {
		key, _ := m.Member.(string)
		source, destination, ok := strings.Cut(key, "|")
		if !ok {
			continue
		}
		out = append(out, RouteCount{
			Source:      source,
			Destination: destination,
			Searches:    int64(m.Score),
		})
	}
	return out, nil
}

// Stop flushes pending batches and stops accepting increments.
func (rs *RouteStats) Stop() {
	rs.proc.Stop()
}

func routeKey(source, destination string) string {
	return strings.ToLower(strings.TrimSpace(source)) + "|" + strings.ToLower(strings.TrimSpace(destination))
}
