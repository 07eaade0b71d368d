package zwindow

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const (
	microBase   = int64(1_700_000_000_000_000) // an arbitrary wall-clock instant
	microSecond = int64(time.Second / time.Microsecond)
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestAdmitRecordsUntilLimit(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	window := microSecond

	admitted, count, err := Admit(ctx, rdb, "w", microBase, window, 2, "a")
	if err != nil {
		t.Fatalf("admit a: %v", err)
	}
	if !admitted || count != 1 {
		t.Fatalf("expected (true, 1), got (%v, %d)", admitted, count)
	}

	admitted, count, err = Admit(ctx, rdb, "w", microBase+100, window, 2, "b")
	if err != nil {
		t.Fatalf("admit b: %v", err)
	}
	if !admitted || count != 2 {
		t.Fatalf("expected (true, 2), got (%v, %d)", admitted, count)
	}

	admitted, count, err = Admit(ctx, rdb, "w", microBase+200, window, 2, "c")
	if err != nil {
		t.Fatalf("admit c: %v", err)
	}
	if admitted {
		t.Fatal("third entry should be rejected at limit 2")
	}
	if count != 2 {
		t.Fatalf("rejection should report the observed count 2, got %d", count)
	}
}

func TestAdmitEvictsExpiredEntries(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	window := microSecond

	if _, _, err := Admit(ctx, rdb, "w", microBase, window, 1, "a"); err != nil {
		t.Fatalf("admit a: %v", err)
	}

	// One microsecond past a's window edge the slot is free again, even at
	// limit 1.
	admitted, count, err := Admit(ctx, rdb, "w", microBase+window+1, window, 1, "b")
	if err != nil {
		t.Fatalf("admit b: %v", err)
	}
	if !admitted || count != 1 {
		t.Fatalf("expected (true, 1) after decay, got (%v, %d)", admitted, count)
	}
}

func TestAdmitSameScoreDistinctMembers(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	window := 60 * microSecond

	for i, member := range []string{"a", "b"} {
		admitted, count, err := Admit(ctx, rdb, "w", microBase, window, 10, member)
		if err != nil {
			t.Fatalf("admit %q: %v", member, err)
		}
		if !admitted || count != int64(i+1) {
			t.Fatalf("admit %q: expected (true, %d), got (%v, %d)", member, i+1, admitted, count)
		}
	}
}

func TestRemoveOldestOnEmptyWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	count, err := RemoveOldest(context.Background(), rdb, "w", microBase, microSecond)
	if err != nil {
		t.Fatalf("remove oldest: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestRemoveOldestDropsLowestScore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	window := microSecond

	if _, _, err := Admit(ctx, rdb, "w", microBase, window, 10, "a"); err != nil {
		t.Fatalf("admit a: %v", err)
	}
	if _, _, err := Admit(ctx, rdb, "w", microBase+100, window, 10, "b"); err != nil {
		t.Fatalf("admit b: %v", err)
	}

	count, err := RemoveOldest(ctx, rdb, "w", microBase+200, window)
	if err != nil {
		t.Fatalf("remove oldest: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Past a's window edge: if "a" was the one removed, "b" is still here.
	count, err = Count(ctx, rdb, "w", microBase+window+1, window)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the newer entry to survive, got count %d", count)
	}
}

func TestCountEvictsPhysically(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	window := microSecond

	if _, _, err := Admit(ctx, rdb, "w", microBase, window, 10, "a"); err != nil {
		t.Fatalf("admit a: %v", err)
	}

	count, err := Count(ctx, rdb, "w", microBase+window+1, window)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 after decay, got %d", count)
	}

	// Eviction removes members, it does not just skip them.
	if n := rdb.ZCard(ctx, "w").Val(); n != 0 {
		t.Fatalf("expected expired member to be deleted, %d left", n)
	}
}

func TestAdmitReloadsAfterScriptFlush(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	window := 60 * microSecond

	if _, _, err := Admit(ctx, rdb, "w", microBase, window, 10, "a"); err != nil {
		t.Fatalf("admit a: %v", err)
	}

	if err := rdb.ScriptFlush(ctx).Err(); err != nil {
		t.Fatalf("script flush: %v", err)
	}

	admitted, count, err := Admit(ctx, rdb, "w", microBase+100, window, 10, "b")
	if err != nil {
		t.Fatalf("admit after flush: %v", err)
	}
	if !admitted || count != 2 {
		t.Fatalf("expected (true, 2) after flush, got (%v, %d)", admitted, count)
	}
}
