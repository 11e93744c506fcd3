package analytics

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKeyNormalizes(t *testing.T) {
	assert.Equal(t, "delhi|mumbai", routeKey(" Delhi ", "MUMBAI"))
}

func TestFlushIncrementsByPendingCount(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	mock.ExpectZIncrBy(routeRankKey, 3, "delhi|mumbai").SetVal(12)

	rs := &RouteStats{rdb: rdb}
	err := rs.flush(context.Background(), "delhi|mumbai", &routeCounter{pending: 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlushSkipsEmptyBatch(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	rs := &RouteStats{rdb: rdb}
	require.NoError(t, rs.flush(context.Background(), "delhi|mumbai", &routeCounter{}))
	require.NoError(t, rs.flush(context.Background(), "delhi|mumbai", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopSplitsRouteKeys(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	mock.ExpectZRevRangeWithScores(routeRankKey, 0, 4).SetVal([]redis.Z{
		{Score: 40, Member: "delhi|mumbai"},
		{Score: 12, Member: "pune|goa"},
		{Score: 1, Member: "corrupt-entry"},
	})

	rs := &RouteStats{rdb: rdb}
	got, err := rs.Top(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 2, "entries without a separator are skipped")
	assert.Equal(t, RouteCount{Source: "delhi", Destination: "mumbai", Searches: 40}, got[0])
	assert.Equal(t, RouteCount{Source: "pune", Destination: "goa", Searches: 12}, got[1])
}
