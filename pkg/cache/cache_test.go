package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent failure")

func init() {
	RetryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	mk1 := k.MazeKey(MazeKeyOpts{Width: 10, Height: 10, Seed: 1})
	mk2 := k.MazeKey(MazeKeyOpts{Width: 10, Height: 10, Seed: 2})
	if mk1 == mk2 {
		t.Error("Different seeds should produce different maze keys")
	}
	if !strings.HasPrefix(mk1, "maze:") {
		t.Errorf("MazeKey should be prefixed with stage: %s", mk1)
	}
	if mk1 != k.MazeKey(MazeKeyOpts{Width: 10, Height: 10, Seed: 1}) {
		t.Error("MazeKey should be deterministic")
	}

	sk1 := k.SolutionKey("hash123", SolutionKeyOpts{Heuristic: "euclidean"})
	sk2 := k.SolutionKey("hash123", SolutionKeyOpts{Heuristic: "manhattan"})
	sk3 := k.SolutionKey("hash123", SolutionKeyOpts{Heuristic: "euclidean", PlaneAware: true})
	if sk1 == sk2 || sk1 == sk3 {
		t.Error("Different SolutionKeyOpts should produce different keys")
	}

	fk1 := k.FrameKey(sk1, FrameKeyOpts{Step: 1, Format: "svg"})
	fk2 := k.FrameKey(sk1, FrameKeyOpts{Step: 1, Format: "png"})
	fk3 := k.FrameKey(sk2, FrameKeyOpts{Step: 1, Format: "svg"})
	if fk1 == fk2 || fk1 == fk3 {
		t.Error("Different frame inputs should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "labyrinth:test:")

	opts := MazeKeyOpts{Width: 3, Height: 3}
	if got, want := scoped.MazeKey(opts), "labyrinth:test:"+inner.MazeKey(opts); got != want {
		t.Errorf("ScopedKeyer MazeKey = %s, want %s", got, want)
	}

	sk := scoped.SolutionKey("abc", SolutionKeyOpts{})
	if !strings.HasPrefix(sk, "labyrinth:test:solution:") {
		t.Errorf("ScopedKeyer SolutionKey should be prefixed: %s", sk)
	}

	fk := scoped.FrameKey("abc", FrameKeyOpts{Step: 3})
	if !strings.HasPrefix(fk, "labyrinth:test:frame:") {
		t.Errorf("ScopedKeyer FrameKey should be prefixed: %s", fk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.MazeKey(MazeKeyOpts{Width: 1, Height: 1})
	if !strings.HasPrefix(key, "prefix:maze:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "maze:missing"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "maze:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "maze:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}

	if err := c.Delete(ctx, "maze:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "maze:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "maze:abc"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "frame:old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "frame:old"); hit {
		t.Error("expired entry should be a miss")
	}

	// ttl <= 0 never expires
	if err := c.Set(ctx, "maze:keep", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "maze:keep"); !hit {
		t.Error("entry without ttl should be kept")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, k := range []string{"maze:a", "solution:b", "frame:c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	clearer, ok := c.(Clearer)
	if !ok {
		t.Fatal("FileCache should implement Clearer")
	}
	if err := clearer.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"maze:a", "solution:b", "frame:c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s should be gone after Clear", k)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory should survive Clear: %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	type entry struct {
		Steps int `json:"steps"`
	}
	var got entry
	if err := GetJSON(ctx, c, "solution:x", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("GetJSON on miss = %v, want ErrCacheMiss", err)
	}

	if err := SetJSON(ctx, c, "solution:x", entry{Steps: 42}, TTLSolution); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := GetJSON(ctx, c, "solution:x", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Steps != 42 {
		t.Errorf("Steps = %d, want 42", got.Steps)
	}

	// Corrupt entries are dropped and reported as misses
	if err := c.Set(ctx, "solution:bad", []byte("{"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := GetJSON(ctx, c, "solution:bad", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON on corrupt entry = %v, want ErrCacheMiss", err)
	}
	if _, hit, _ := c.Get(ctx, "solution:bad"); hit {
		t.Error("corrupt entry should be deleted")
	}
}
