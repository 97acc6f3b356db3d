// Package httpapi exposes the endpoint table over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mklimuk/z906/endpoint"
)

type Opts struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

func WithLogger(logger *slog.Logger) func(*Opts) {
	return func(o *Opts) {
		o.Logger = logger
	}
}

func WithRegistry(reg *prometheus.Registry) func(*Opts) {
	return func(o *Opts) {
		o.Registry = reg
	}
}

// Server serializes every endpoint call onto the single serial line.
type Server struct {
	srv     *http.Server
	router  *endpoint.Router
	metrics *Metrics
	log     *slog.Logger
	mx      sync.Mutex
}

type Result struct {
	Path  string `json:"path"`
	Value int    `json:"value"`
}

type Description struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Help string `json:"help"`
}

func New(addr string, router *endpoint.Router, opts ...func(*Opts)) *Server {
	o := Opts{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Registry == nil {
		o.Registry = NewRegistry()
	}
	s := &Server{
		router:  router,
		metrics: NewMetrics(o.Registry),
		log:     o.Logger.With("component", "http"),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(MetricsHandler(o.Registry)))
	r.GET("/endpoints", s.describe)
	r.GET("/api/*path", s.call)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) describe(c *gin.Context) {
	list := make([]Description, 0, len(endpoint.Table))
	for _, e := range endpoint.Table {
		list = append(list, Description{Path: e.Path, Kind: e.Kind.String(), Help: e.Help})
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) call(c *gin.Context) {
	path := strings.Trim(c.Param("path"), "/")
	e, ok := s.router.Lookup(path)
	if !ok {
		s.metrics.Requests.WithLabelValues("", "unknown").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown endpoint", "path": path})
		return
	}

	s.mx.Lock()
	start := time.Now()
	v, err := s.router.Handle(c.Request.Context(), e.Path, c.Query("value"))
	s.metrics.Duration.WithLabelValues(e.Path).Observe(time.Since(start).Seconds())
	s.mx.Unlock()

	switch {
	case errors.Is(err, endpoint.ErrInvalidParam):
		s.metrics.Requests.WithLabelValues(e.Path, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "path": e.Path})
		return
	case err != nil:
		s.metrics.Requests.WithLabelValues(e.Path, "error").Inc()
		s.log.Error("amplifier request failed", "path", e.Path, "error", err)
	default:
		s.metrics.Requests.WithLabelValues(e.Path, "ok").Inc()
	}
	c.JSON(http.StatusOK, Result{Path: e.Path, Value: v})
}
