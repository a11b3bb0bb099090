package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/labyrinth/pkg/errors"
	mio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// isolate points the config and cache directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"generate", "solve", "frames", "step", "serve", "db", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    *maze.Point
		wantErr bool
	}{
		{"", nil, false},
		{"3,4", &maze.Point{X: 3, Y: 4}, false},
		{"3", nil, true},
		{"a,b", nil, true},
		{"1,1 2,2", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint("start", tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidPoint) {
					t.Errorf("error code = %q", errors.GetCode(err))
				}
				return
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("parsePoint(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.config = pipeline.Config{
		Maze:   pipeline.MazeConfig{Width: 20, Height: 15},
		Solver: pipeline.SolverConfig{Heuristic: "manhattan", PlaneAware: true},
		Render: pipeline.RenderConfig{Format: "png"},
	}

	opts := pipeline.Options{}
	cmd := c.solveCommand()
	bound := cmd.Flags()
	if err := bound.Parse([]string{"--height", "7", "--format", "svg"}); err != nil {
		t.Fatal(err)
	}
	opts.Width, opts.Height, opts.Heuristic, opts.Format = 10, 7, "euclidean", "svg"

	got := c.withConfig(cmd, opts)
	if got.Width != 20 {
		t.Errorf("Width = %d, want config value 20", got.Width)
	}
	if got.Height != 7 {
		t.Errorf("Height = %d, want flag value 7", got.Height)
	}
	if got.Heuristic != "manhattan" || !got.PlaneAware {
		t.Errorf("solver = %q plane-aware=%v, want manhattan plane-aware", got.Heuristic, got.PlaneAware)
	}
	if got.Format != "svg" {
		t.Errorf("Format = %q, want flag value svg", got.Format)
	}
}

func TestGenerateCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "generate", "--width", "4", "--height", "3", "--seed", "9", "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2*3+1 {
		t.Fatalf("got %d lines of maze, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "S") || !strings.Contains(out, "F") {
		t.Errorf("maze lacks start or finish:\n%s", out)
	}
}

func TestGenerateThenSolve(t *testing.T) {
	dir := isolate(t)
	mazePath := filepath.Join(dir, "maze.json")
	if _, err := execute(t, "generate", "--width", "6", "--height", "6", "--weave", "40", "--seed", "5", "-o", mazePath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	g, err := mio.ImportJSON(mazePath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if g.Width() != 6 || g.Height() != 6 {
		t.Errorf("maze = %dx%d", g.Width(), g.Height())
	}

	svgPath := filepath.Join(dir, "solution.svg")
	if _, err := execute(t, "solve", "-i", mazePath, "--plane-aware", "--verify", "-o", svgPath); err != nil {
		t.Fatalf("solve: %v", err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatalf("solution not rendered: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("solution.svg starts with %q", data[:min(len(data), 16)])
	}
}

func TestInvalidFlags(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"dimensions", []string{"generate", "--width", "0", "--height", "-2"}, errors.ErrCodeInvalidDimensions},
		{"start", []string{"generate", "--start", "nowhere"}, errors.ErrCodeInvalidPoint},
		{"heuristic", []string{"solve", "--heuristic", "taxicab"}, errors.ErrCodeInvalidHeuristic},
		{"format", []string{"frames", "--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"db clear", []string{"db", "clear"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	if _, err := execute(t, "--config", filepath.Join(dir, "missing.toml"), "cache", "path"); err == nil {
		t.Error("missing --config file should fail")
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestFramesCommand(t *testing.T) {
	dir := isolate(t)
	framesDir := filepath.Join(dir, "frames")
	if _, err := execute(t, "frames", "--width", "4", "--height", "4", "--seed", "2", "--dir", framesDir, "--no-cache"); err != nil {
		t.Fatalf("frames: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(framesDir, "step-*.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no frames written")
	}
	if filepath.Base(files[0]) != "step-001.svg" {
		t.Errorf("first frame = %s, want step-001.svg", filepath.Base(files[0]))
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" version ") {
		t.Errorf("--version printed %q", out)
	}
}
