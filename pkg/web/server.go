package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/spiro"
)

// Server is the web target: it serves the page, the bare drawing and the
// form endpoints that edit the shared session
type Server struct {
	session *spiro.Session
	opts    spiro.DrawOptions
	router  *mux.Router
}

// NewServer wires the routes. Matched routes have their responses compressed.
func NewServer(session *spiro.Session, opts spiro.DrawOptions) *Server {
	s := &Server{session: session, opts: opts}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(Compress)

	r.HandleFunc("/", s.handlePage).Methods("GET")
	r.HandleFunc("/curve.svg", s.handleCurve).Methods("GET")
	r.HandleFunc("/params", s.handleGetParams).Methods("GET")
	r.HandleFunc("/params", s.handlePostParams).Methods("POST")
	r.HandleFunc("/shuffle", s.handleShuffle).Methods("POST")
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := RenderPage(s.session.Frame(), s.opts)
	if err != nil {
		logger.Error("Failed to render page:", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(page)); err != nil {
		logger.Debug("Failed to write page:", err)
	}
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	drawing, err := s.session.Frame().Drawing(s.opts)
	if err != nil {
		logger.Error("Failed to draw curve:", err)
		http.Error(w, "failed to draw curve", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := drawing.WriteTo(w); err != nil {
		logger.Debug("Failed to write curve:", err)
	}
}

func (s *Server) handleGetParams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.Params())
}

func (s *Server) handlePostParams(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	edit, err := ParseEdit(r.PostForm.Get)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p := s.session.Update(edit.Apply)
	logger.Debug("Params updated", p)
	s.respond(w, r, p)
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	p := s.session.Randomize()
	logger.Debug("Params shuffled", p)
	s.respond(w, r, p)
}

// respond sends browsers back to the page and gives API clients the new params
func (s *Server) respond(w http.ResponseWriter, r *http.Request, p spiro.Params) {
	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, p)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response:", err)
	}
}

// ParseEdit reads an edit from form style key lookups. Blank or missing
// values are left out, unparseable values are an error. alpha only applies
// together with color.
func ParseEdit(get func(string) string) (spiro.Edit, error) {
	var e spiro.Edit
	ints := map[string]**int{"a": &e.A, "b": &e.B, "c": &e.C, "param_max": &e.ParamMax}
	for name, dst := range ints {
		raw := get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return spiro.Edit{}, fmt.Errorf("%s must be an integer, got %q", name, raw)
		}
		*dst = &v
	}
	if raw := get("width"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return spiro.Edit{}, fmt.Errorf("width must be a number, got %q", raw)
		}
		e.Width = &v
	}
	if raw := get("color"); raw != "" {
		c, err := spiro.ParseColor(raw)
		if err != nil {
			return spiro.Edit{}, err
		}
		if alpha := get("alpha"); alpha != "" {
			a, err := strconv.ParseUint(alpha, 10, 8)
			if err != nil {
				return spiro.Edit{}, fmt.Errorf("alpha must be an integer in [0, 255], got %q", alpha)
			}
			c.A = uint8(a)
		}
		e.Color = &c
	}
	return e, nil
}

// Serve runs the web target on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Serving on", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
