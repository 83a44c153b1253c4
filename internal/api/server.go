package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo-service/internal/logging"
	"github.com/idilsaglam/todo-service/internal/model"
)

// Route prefixes. Both bases serve the same routes.
const (
	BasePath       = "/api/todos"
	AliasPath      = "/todos"
	HealthPath     = "/health"
	DefaultAddress = "127.0.0.1:8080"
)

// Store is what the API needs from the todo store.
type Store interface {
	List() []model.TodoItem
	Get(id int64) (model.TodoItem, error)
	Create(item model.TodoItem) model.TodoItem
	Update(id int64, item model.TodoItem) (model.TodoItem, error)
	Delete(id int64) bool
}

// ServerOptions configures the HTTP server.
// Zero values are replaced with defaults by NewServer.
type ServerOptions struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
	Logger            *log.Logger
}

// Server hosts the todo HTTP API.
type Server struct {
	http    *http.Server
	handler http.Handler
	store   Store
	logger  *log.Logger
	opts    ServerOptions

	listener net.Listener
}

// NewServer constructs a server bound to store.
// The server does not start listening until Start is called.
func NewServer(store Store, opts ServerOptions) *Server {
	if store == nil {
		panic("api.NewServer: store is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(nil, logging.DefaultOptions())
	}

	s := &Server{
		store:  store,
		logger: opts.Logger,
		opts:   opts,
	}

	mux := http.NewServeMux()
	for _, base := range []string{BasePath, AliasPath} {
		mux.HandleFunc("GET "+base, s.handleList)
		mux.HandleFunc("POST "+base, s.handleCreate(base))
		mux.HandleFunc("GET "+base+HealthPath, s.handleHealth)
		mux.HandleFunc("GET "+base+"/{id}", s.handleGet)
		mux.HandleFunc("PUT "+base+"/{id}", s.handleUpdate)
		mux.HandleFunc("DELETE "+base+"/{id}", s.handleDelete)
	}
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)

	s.handler = withRequestID(withLogging(mux, opts.Logger))
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		ErrorLog:          opts.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}
	return s
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listen address and serves in a background goroutine.
// Bind errors are returned; later serve errors are logged.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", s.http.Addr, err)
	}
	s.listener = l
	go func() {
		s.logger.Info("listening", "addr", l.Addr().String())
		if err := s.http.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded, else the
// configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := s.opts.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
