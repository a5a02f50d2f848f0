package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_MissingKey(t *testing.T) {
	store, _ := newRedisStore(t)
	_, ok, err := store.Last(context.Background(), "u1")
	if err != nil || ok {
		t.Fatalf("Last() = ok %v, err %v; want no entry", ok, err)
	}
}

func TestRedisStore_RecordAndExpire(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Record(ctx, "u1", at, DefaultWindow); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	got, ok, err := store.Last(ctx, "u1")
	if err != nil || !ok || !got.Equal(at) {
		t.Fatalf("Last() = %v, %v, %v; want %v", got, ok, err, at)
	}
	if ttl := mr.TTL(redisKeyPrefix + "u1"); ttl != DefaultWindow {
		t.Errorf("TTL = %v, want %v", ttl, DefaultWindow)
	}

	mr.FastForward(DefaultWindow)
	if _, ok, _ := store.Last(ctx, "u1"); ok {
		t.Error("entry survived its window")
	}
}

func TestRedisStore_CorruptValueIsEmpty(t *testing.T) {
	store, mr := newRedisStore(t)
	if err := mr.Set(redisKeyPrefix+"u1", "not-a-number"); err != nil {
		t.Fatal(err)
	}
	_, ok, err := store.Last(context.Background(), "u1")
	if err != nil || ok {
		t.Fatalf("Last() = ok %v, err %v; want empty slot", ok, err)
	}
}

func TestRedisStore_BacksThrottle(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	now := time.Now()
	th := New(store, DefaultWindow).WithClock(func() time.Time { return now })

	if err := th.MarkSuccess(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)
	if err := th.Check(ctx, "u1"); err == nil {
		t.Fatal("Check() passed inside the window")
	}
}
