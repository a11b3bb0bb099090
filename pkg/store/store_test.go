package store

import (
	"context"
	"errors"
	"testing"
	"time"

	lerrors "github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

func TestEncodeCoordinate(t *testing.T) {
	tests := []struct {
		name string
		path []maze.Point
		want string
	}{
		{"empty", nil, ""},
		{"single", []maze.Point{{X: 0, Y: 0}}, "0,0"},
		{"route", []maze.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 12}}, "0,0 1,0 1,12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeCoordinate(tt.path)
			if got != tt.want {
				t.Errorf("EncodeCoordinate = %q, want %q", got, tt.want)
			}
			back, err := ParseCoordinate(got)
			if err != nil {
				t.Fatalf("ParseCoordinate: %v", err)
			}
			if len(back) != len(tt.path) {
				t.Fatalf("ParseCoordinate = %v, want %v", back, tt.path)
			}
			for i := range back {
				if back[i] != tt.path[i] {
					t.Errorf("point %d = %v, want %v", i, back[i], tt.path[i])
				}
			}
		})
	}
}

func TestParseCoordinateErrors(t *testing.T) {
	for _, in := range []string{"1", "a,1", "1,b", "1,1 2"} {
		if _, err := ParseCoordinate(in); !lerrors.Is(err, lerrors.ErrCodeInvalidFormat) {
			t.Errorf("ParseCoordinate(%q) = %v, want INVALID_FORMAT", in, err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesMaze(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	l := &Labyrinth{Maze: []byte(`{"width":1}`)}
	if err := s.SaveLabyrinth(ctx, l); err != nil {
		t.Fatalf("SaveLabyrinth: %v", err)
	}
	l.Maze[0] = 'X'
	got, err := s.GetLabyrinth(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetLabyrinth: %v", err)
	}
	if got.Maze[0] != '{' {
		t.Error("stored maze should not alias the caller's slice")
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init should be idempotent: %v", err)
	}

	kb := &KnowledgeBase{Title: "runs", Performer: "tester"}
	if err := s.CreateKnowledgeBase(ctx, kb); err != nil {
		t.Fatalf("CreateKnowledgeBase: %v", err)
	}
	if kb.ID == "" || kb.CreatedAt.IsZero() {
		t.Fatalf("CreateKnowledgeBase should assign ID and time: %+v", kb)
	}
	gotKB, err := s.GetKnowledgeBase(ctx, kb.ID)
	if err != nil {
		t.Fatalf("GetKnowledgeBase: %v", err)
	}
	if gotKB.Title != "runs" || gotKB.Performer != "tester" {
		t.Errorf("GetKnowledgeBase = %+v", gotKB)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i := 0; i < 3; i++ {
		l := &Labyrinth{
			KnowledgeBaseID: kb.ID,
			Coordinate:      EncodeCoordinate([]maze.Point{{X: 0, Y: 0}, {X: i, Y: 0}}),
			Performer:       "tester",
			Width:           4,
			Height:          3,
			Seed:            int64(i),
			Steps:           10 + i,
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		}
		if err := s.SaveLabyrinth(ctx, l); err != nil {
			t.Fatalf("SaveLabyrinth: %v", err)
		}
		ids = append(ids, l.ID)
	}
	if err := s.SaveLabyrinth(ctx, &Labyrinth{Performer: "other", CreatedAt: base}); err != nil {
		t.Fatalf("SaveLabyrinth: %v", err)
	}

	got, err := s.GetLabyrinth(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetLabyrinth: %v", err)
	}
	if got.Seed != 1 || got.Steps != 11 || got.Coordinate != "0,0 1,0" {
		t.Errorf("GetLabyrinth = %+v", got)
	}

	list, err := s.ListLabyrinths(ctx, ListOptions{KnowledgeBaseID: kb.ID})
	if err != nil {
		t.Fatalf("ListLabyrinths: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListLabyrinths returned %d records, want 3", len(list))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s (newest first)", i, list[i].ID, want)
		}
	}

	all, err := s.ListLabyrinths(ctx, ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListLabyrinths: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListLabyrinths with limit returned %d, want 2", len(all))
	}

	if _, err := s.GetLabyrinth(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLabyrinth missing = %v, want ErrNotFound", err)
	}
	if _, err := s.GetKnowledgeBase(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetKnowledgeBase missing = %v, want ErrNotFound", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.GetLabyrinth(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLabyrinth after Clear = %v, want ErrNotFound", err)
	}
	list, err = s.ListLabyrinths(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListLabyrinths after Clear: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListLabyrinths after Clear returned %d", len(list))
	}
}
