package ui

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/JeanRibes/progression/music"
	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"

	charmlog "github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const MAX_ERRORS = 16

var ErrStopped = errors.New("loop is not listening")

/*
Server is the display's view of the instrument. It never touches the engine:
reads come from the last Status the loop announced, writes go to SinkLoop as
messages.
*/
type Server struct {
	mu       sync.Mutex
	status   Status
	config   Config
	errors   []string
	instance string
	lib      *theory.Library

	SinkLoop chan Message
	logger   *charmlog.Logger
}

func New(instance string, cfg Config, lib *theory.Library, SinkLoop chan Message) *Server {
	return &Server{
		instance: instance,
		config:   cfg,
		lib:      lib,
		status:   Status{Instance: instance},
		SinkLoop: SinkLoop,
		logger: charmlog.NewWithOptions(os.Stdout, charmlog.Options{
			Level:           charmlog.InfoLevel,
			ReportTimestamp: false,
			Prefix:          "ui",
		}),
	}
}

func (s *Server) SetLogger(l *charmlog.Logger) {
	s.logger = l
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/output", s.handleOutput).Methods("GET")
	router.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	router.HandleFunc("/config", s.handlePutConfig).Methods("PUT")
	router.HandleFunc("/reset", s.handleSend(Reset)).Methods("POST")
	router.HandleFunc("/clock", s.handleClock).Methods("POST")
	router.HandleFunc("/save", s.handleSend(StateSave)).Methods("POST")
	router.HandleFunc("/load", s.handleSend(StateLoad)).Methods("POST")
	router.HandleFunc("/library", s.handleLibrary).Methods("GET")
	return router
}

// Handler is the router behind CORS, so a page served from elsewhere can
// poll it.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.Router())
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	s.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetConfig checks c against the library, keeps it and hands it to the
// loop. A config with unknown names is refused and nothing changes.
func (s *Server) SetConfig(ctx context.Context, c Config) error {
	if _, err := music.Resolve(c, s.lib); err != nil {
		return err
	}
	s.mu.Lock()
	s.config = c
	s.mu.Unlock()
	return s.send(ctx, Message{Type: ConfigChange, Config: &c})
}

func (s *Server) send(ctx context.Context, msg Message) error {
	select {
	case s.SinkLoop <- msg:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrStopped, ctx.Err())
	}
}

func (s *Server) setStatus(st Status) {
	st.Instance = s.instance
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Server) addError(e string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, e)
	if len(s.errors) > MAX_ERRORS {
		s.errors = s.errors[len(s.errors)-MAX_ERRORS:]
	}
}

func (s *Server) snapshot() (Status, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make([]string, len(s.errors))
	copy(errs, s.errors)
	return s.status, errs
}
