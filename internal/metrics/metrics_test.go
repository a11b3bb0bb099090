package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/labyrinth/pkg/observability"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(body)
}

func TestHooksRecord(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnGenerateComplete(ctx, 10, 10, time.Millisecond, nil)
	m.OnSolveComplete(ctx, "euclidean", "solved", 42, time.Millisecond, nil)
	m.OnSolveComplete(ctx, "manhattan", "exhausted", 7, time.Millisecond, errors.New("boom"))
	m.OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	m.OnCacheHit(ctx, "maze")
	m.OnCacheHit(ctx, "maze")
	m.OnCacheMiss(ctx, "solution")
	m.OnCacheSet(ctx, "frame", 512)
	m.OnResponse(ctx, "POST", "/sessions", 201, time.Millisecond)
	m.OnSessionCount(ctx, 3)

	out := scrape(t, m)
	for _, want := range []string{
		`labyrinth_generate_total{result="ok"} 1`,
		`labyrinth_solve_total{heuristic="euclidean",state="solved"} 1`,
		`labyrinth_solve_total{heuristic="manhattan",state="error"} 1`,
		`labyrinth_render_total{format="svg",result="ok"} 1`,
		`labyrinth_cache_hits_total{stage="maze"} 2`,
		`labyrinth_cache_misses_total{stage="solution"} 1`,
		`labyrinth_cache_written_bytes_total{stage="frame"} 512`,
		`labyrinth_http_requests_total{code="201",method="POST",route="/sessions"} 1`,
		`labyrinth_sessions 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()

	m := New(prometheus.NewRegistry())
	m.Register()
	if observability.Pipeline() != m || observability.Cache() != m || observability.HTTP() != m {
		t.Error("Register should install the metrics as every hook")
	}

	observability.Cache().OnCacheMiss(context.Background(), "frame")
	if !strings.Contains(scrape(t, m), `labyrinth_cache_misses_total{stage="frame"} 1`) {
		t.Error("global hook call should reach the collectors")
	}
}
