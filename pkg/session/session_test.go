package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/labyrinth/pkg/astar"
	lerrors "github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

func testGrid(t *testing.T) *maze.Grid {
	t.Helper()
	g, err := maze.Generate(maze.GenerateConfig{Width: 6, Height: 5, Weave: 40, Seed: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return g
}

func TestNew(t *testing.T) {
	g := testGrid(t)
	sess, err := New(g, Options{}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.ID == "" {
		t.Error("session should get an ID")
	}
	if !sess.ExpiresAt().After(sess.CreatedAt) {
		t.Error("session should expire after it was created")
	}

	f := sess.Frame()
	if f.Step != 0 || f.State != astar.Initialized {
		t.Errorf("initial frame = step %d %v, want step 0 initialized", f.Step, f.State)
	}
	if len(f.Open) != 1 || f.Open[0] != g.Start() {
		t.Errorf("initial open = %v, want [%v]", f.Open, g.Start())
	}

	other, err := New(g, Options{}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if other.ID == sess.ID {
		t.Error("session IDs should be unique")
	}
}

func TestNewInvalidHeuristic(t *testing.T) {
	_, err := New(testGrid(t), Options{Heuristic: "chebyshev"}, 0)
	if !lerrors.Is(err, lerrors.ErrCodeInvalidHeuristic) {
		t.Fatalf("New error = %v, want INVALID_HEURISTIC", err)
	}
}

func TestStep(t *testing.T) {
	g := testGrid(t)
	sess, err := New(g, Options{Heuristic: "manhattan", PlaneAware: true}, time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f, err := sess.Step(1)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.Step != 1 {
		t.Errorf("Step = %d, want 1", f.Step)
	}
	if f.Current == nil || *f.Current != g.Start() {
		t.Errorf("first expansion = %v, want start %v", f.Current, g.Start())
	}

	f, err = sess.Step(MaxStepsPerCall)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !f.Solved || f.State != astar.Solved {
		t.Fatalf("state after run = %v, want solved", f.State)
	}
	want, ok := maze.ShortestPath(g)
	if !ok {
		t.Fatal("generated maze should be solvable")
	}
	if len(f.Best) != len(want) {
		t.Errorf("solution length = %d, want %d", len(f.Best), len(want))
	}

	// Further steps are no-ops on a terminated search
	again, err := sess.Step(5)
	if err != nil {
		t.Fatalf("Step after solve: %v", err)
	}
	if again.Step != f.Step {
		t.Errorf("Step advanced after solve: %d -> %d", f.Step, again.Step)
	}

	st := sess.Status()
	if !st.Terminated || st.Snapshot.StateName != "solved" {
		t.Errorf("status = %+v, want terminated solved", st)
	}
	if st.Width != 6 || st.Height != 5 {
		t.Errorf("status size = %dx%d, want 6x5", st.Width, st.Height)
	}
}

func TestStepClampsCount(t *testing.T) {
	sess, err := New(testGrid(t), Options{}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f, err := sess.Step(0)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.Step != 1 {
		t.Errorf("Step(0) advanced to %d, want 1", f.Step)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}

	sess, err := New(testGrid(t), Options{}, time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("Delete of missing session should succeed: %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	sess, err := New(testGrid(t), Options{}, time.Nanosecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("Get expired = %v, want ErrExpired", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired session should be removed on Get, have %d", store.Len())
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	g := testGrid(t)

	for _, ttl := range []time.Duration{time.Nanosecond, time.Nanosecond, time.Hour} {
		sess, err := New(g, Options{}, ttl)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := store.Set(ctx, sess); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	time.Sleep(2 * time.Millisecond)

	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 2 || store.Len() != 1 {
		t.Errorf("Cleanup removed %d, %d left; want 2 removed, 1 left", n, store.Len())
	}
}

func TestMemoryStoreLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(1)
	g := testGrid(t)

	first, _ := New(g, Options{}, time.Hour)
	second, _ := New(g, Options{}, time.Hour)
	if err := store.Set(ctx, first); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, second); !errors.Is(err, ErrFull) {
		t.Fatalf("Set over limit = %v, want ErrFull", err)
	}
	// Replacing an existing session is always allowed
	if err := store.Set(ctx, first); err != nil {
		t.Errorf("Set of existing session: %v", err)
	}
}

func TestMemoryStoreLimitEvictsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(1)
	g := testGrid(t)

	stale, _ := New(g, Options{}, time.Nanosecond)
	fresh, _ := New(g, Options{}, time.Hour)
	if err := store.Set(ctx, stale); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := store.Set(ctx, fresh); err != nil {
		t.Fatalf("Set should evict the expired session: %v", err)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("Get fresh: %v", err)
	}
}
