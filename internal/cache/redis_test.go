package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestGetJSONMissThenHit(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	var got []uint
	assert.False(t, GetJSON(ctx, "test", "some:key", &got))

	SetJSON(ctx, "some:key", []uint{1, 2, 3}, time.Minute)
	require.True(t, GetJSON(ctx, "test", "some:key", &got))
	assert.Equal(t, []uint{1, 2, 3}, got)
}

func TestGetJSONCorruptValueIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })

	mr.Set("bad:key", "{not json")

	var got map[string]int
	assert.False(t, GetJSON(context.Background(), "test", "bad:key", &got))
}

func TestDeleteByPrefix(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	SetJSON(ctx, RecentPostsKey(5), []uint{1}, time.Minute)
	SetJSON(ctx, RecentPostsKey(10), []uint{1, 2}, time.Minute)
	SetJSON(ctx, FollowerCountKey(7), int64(3), time.Minute)

	DeleteByPrefix(ctx, RecentPostsPrefix())

	var ids []uint
	assert.False(t, GetJSON(ctx, "test", RecentPostsKey(5), &ids))
	assert.False(t, GetJSON(ctx, "test", RecentPostsKey(10), &ids))

	var n int64
	assert.True(t, GetJSON(ctx, "test", FollowerCountKey(7), &n))
	assert.Equal(t, int64(3), n)
}

func TestNilClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var got int
	assert.False(t, GetJSON(ctx, "test", "k", &got))
	SetJSON(ctx, "k", 1, time.Minute)
	Delete(ctx, "k")
	DeleteByPrefix(ctx, "k")
}
