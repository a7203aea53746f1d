package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch/sdk/project"
)

func setupMirror(t *testing.T) (*RedisMirror, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	mirror, err := NewRedisMirror(RedisOptions{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { mirror.Close() })
	return mirror, mr
}

func TestNewRedisMirrorBadURL(t *testing.T) {
	_, err := NewRedisMirror(RedisOptions{URL: "://not-a-url"})
	require.Error(t, err)
}

func TestRedisMirrorRecordAndRecent(t *testing.T) {
	mirror, _ := setupMirror(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		it := project.Interaction{
			ID:        id,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Action:    "security-scan",
		}
		require.NoError(t, mirror.Record(ctx, "shop", it, 100))
	}

	recent, err := mirror.Recent(ctx, "shop", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].ID)
	assert.Equal(t, "second", recent[1].ID)
}

func TestRedisMirrorTrimsToLimit(t *testing.T) {
	mirror, mr := setupMirror(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, mirror.Record(ctx, "shop", project.Interaction{ID: id, Action: "security-scan"}, 2))
	}

	entries, err := mr.List(interactionKey("shop"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	recent, err := mirror.Recent(ctx, "shop", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "d", recent[0].ID)
	assert.Equal(t, "c", recent[1].ID)
}

func TestRedisMirrorRecentSkipsUndecodable(t *testing.T) {
	mirror, mr := setupMirror(t)
	ctx := context.Background()

	require.NoError(t, mirror.Record(ctx, "shop", project.Interaction{ID: "good", Action: "security-scan"}, 10))
	_, err := mr.Lpush(interactionKey("shop"), "{not json")
	require.NoError(t, err)

	recent, err := mirror.Recent(ctx, "shop", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "good", recent[0].ID)
}

func TestRedisMirrorRecentEmpty(t *testing.T) {
	mirror, _ := setupMirror(t)
	ctx := context.Background()

	recent, err := mirror.Recent(ctx, "shop", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	recent, err = mirror.Recent(ctx, "shop", 0)
	require.NoError(t, err)
	assert.Nil(t, recent)
}

func TestRedisMirrorKeyPerProject(t *testing.T) {
	mirror, _ := setupMirror(t)
	ctx := context.Background()

	require.NoError(t, mirror.Record(ctx, "shop", project.Interaction{ID: "shop-1", Action: "security-scan"}, 10))
	require.NoError(t, mirror.Record(ctx, "blog", project.Interaction{ID: "blog-1", Action: "security-scan"}, 10))

	recent, err := mirror.Recent(ctx, "shop", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "shop-1", recent[0].ID)
}
