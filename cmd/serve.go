package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/chordgen/bucket"
	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/file"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/markov"
	"github.com/jsphweid/chordgen/metrics"
	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const sessionHeader = "X-Session-ID"

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config server.addr)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves generate, score and render over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = config.GetString("server.addr")
		}

		store := newStore()
		s := NewServer(NewPipeline(store), store)
		s.SessionTTL = config.GetDuration("server.session_ttl")
		if config.FilePath() != "" && file.Exists(config.FilePath()) {
			config.Watch(func() {
				logger.Info("Config changed, reloading")
				store.Reset()
				s.SetPipeline(NewPipeline(store))
			})
		}

		logger.Info("Listening", "addr", addr)
		return http.ListenAndServe(addr, s.Handler())
	},
}

type serverSession struct {
	pipeline.Session
	lastSeen time.Time
}

// Server keeps one session per X-Session-ID. Sessions idle for longer than
// SessionTTL are dropped along with their rendered audio.
type Server struct {
	SessionTTL time.Duration

	store *markov.Store

	mu       sync.Mutex
	pipeline *pipeline.Pipeline
	sessions map[string]serverSession
}

func NewServer(p *pipeline.Pipeline, store *markov.Store) *Server {
	return &Server{
		SessionTTL: time.Hour,
		store:      store,
		pipeline:   p,
		sessions:   make(map[string]serverSession),
	}
}

func (s *Server) SetPipeline(p *pipeline.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = p
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(metrics.Middleware)
	router.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	router.HandleFunc("/score", s.handleScore).Methods("POST")
	router.HandleFunc("/render", s.handleRender).Methods("POST")
	router.HandleFunc("/moods", s.handleMoods).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", sessionHeader},
		ExposedHeaders: []string{sessionHeader},
	}).Handler(router)
}

// session returns the caller's id and state, issuing an id when the request
// has none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, pipeline.Session, *pipeline.Pipeline) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(sessionHeader, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	return id, s.sessions[id].Session, s.pipeline
}

func (s *Server) saveSession(id string, sess pipeline.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.expire(now)
	s.sessions[id] = serverSession{Session: sess, lastSeen: now}
}

// expire drops idle sessions. Callers hold s.mu.
func (s *Server) expire(now time.Time) {
	if s.SessionTTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.SessionTTL {
			s.pipeline.Discard(sess.Session)
			delete(s.sessions, id)
		}
	}
}

func (s *Server) numSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var v *model.ValidationError
	switch {
	case errors.As(err, &v):
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: v.Error(), Field: v.Field})
	case errors.Is(err, markov.ErrUnknownMood):
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: err.Error(), Field: "mood"})
	case errors.Is(err, errNoProgression), errors.Is(err, chord.ErrUnknownChord):
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: err.Error(), Field: "progression"})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError("body", "could not parse request body: "+err.Error())
	}
	return nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body := model.GenerateRequestBody{Mood: "happy", StartChord: chord.Any}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	num := constants.DefaultNumChords
	if body.NumChords != nil {
		num = *body.NumChords
	}
	if num < 0 {
		writeError(w, model.NewValidationError("num_chords", "must not be negative"))
		return
	}

	id, sess, p := s.session(w, r)
	prog, sess, err := p.Generate(sess, body.Mood, body.StartChord, num)
	if err != nil {
		writeError(w, err)
		return
	}
	s.saveSession(id, sess)
	writeJSON(w, http.StatusOK, model.GenerateResponse{SessionId: id, Progression: prog})
}

// renderBody decodes a render request, filling unset options with defaults.
func renderBody(r *http.Request) (model.RenderRequestBody, error) {
	body := model.RenderRequestBody{Options: model.DefaultRenderOptions()}
	err := decode(r, &body)
	return body, err
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	body, err := renderBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	_, sess, p := s.session(w, r)
	prog, err := progressionFor(body.Progression, sess)
	if err != nil {
		writeError(w, err)
		return
	}

	sc, err := p.Compose(prog, body.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", bucket.ContentType(".mid"))
	if err := midi.Encode(sc, w); err != nil {
		logger.Error("Could not write score", "error", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := renderBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format := strings.TrimPrefix(strings.ToLower(body.Format), ".")
	if format == "" {
		format = "wav"
	}

	id, sess, p := s.session(w, r)
	prog, err := progressionFor(body.Progression, sess)
	if err != nil {
		writeError(w, err)
		return
	}

	seg, sess, err := p.Render(r.Context(), sess, prog, body.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	s.saveSession(id, sess)

	out := file.TempPath(p.WorkDir, "."+format)
	defer file.Remove(out)
	if err := p.ExportAudio(r.Context(), seg, out); err != nil {
		writeError(w, err)
		return
	}
	data, err := os.ReadFile(out)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", bucket.ContentType(out))
	w.Write(data)
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := s.store.Moods()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}
