package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/labyrinth/pkg/errors"
	mio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/session"
)

// createRequest is the body of POST /sessions. Generation options are
// ignored when Maze carries a document.
type createRequest struct {
	pipeline.Options
	Maze json.RawMessage `json:"maze,omitempty"`
}

// createResponse echoes the maze so clients can draw it themselves.
type createResponse struct {
	ID     string          `json:"id"`
	Seed   int64           `json:"seed,omitempty"`
	Maze   json.RawMessage `json:"maze"`
	Status session.Status  `json:"status"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatPDF:   "application/pdf",
	pipeline.FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraph: "image/svg+xml",
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := createRequest{Options: s.defaults}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts := req.Options
	var (
		g   *maze.Grid
		err error
	)
	if len(req.Maze) > 0 {
		opts.Seed = 0
		if err := opts.ValidateForSolve(); err != nil {
			s.writeError(w, r, err)
			return
		}
		if g, err = mio.Unmarshal(req.Maze); err == nil {
			err = opts.ApplyEndpoints(g)
		}
	} else {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			s.writeError(w, r, err)
			return
		}
		g, _, err = s.runner.Generate(ctx, opts)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := session.New(g, session.Options{
		Heuristic:       opts.Heuristic,
		PlaneAware:      opts.PlaneAware,
		CheckInvariants: opts.CheckInvariants,
	}, s.ttl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.reportSessions(ctx)

	doc, err := mio.Marshal(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created",
		"id", sess.ID,
		"size", strconv.Itoa(g.Width())+"x"+strconv.Itoa(g.Height()),
		"heuristic", opts.Heuristic)

	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, createResponse{
		ID:     sess.ID,
		Seed:   opts.Seed,
		Maze:   doc,
		Status: sess.Status(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Status())
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "n must be a positive integer, got %q", v))
			return
		}
		n = parsed
	}

	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := sess.Step(n); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Status())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	opts.Format = chi.URLParam(r, "format")
	if v := r.URL.Query().Get("cell_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "cell_size must be an integer, got %q", v))
			return
		}
		opts.CellSize = size
	}
	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.runner.RenderFrame(r.Context(), sess.Maze, sess.Frame(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.sessions.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.reportSessions(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
}

// reportSessions publishes the live session count when the store can
// report it.
func (s *Server) reportSessions(ctx context.Context) {
	if c, ok := s.sessions.(interface{ Len() int }); ok {
		observability.HTTP().OnSessionCount(ctx, c.Len())
	}
}
