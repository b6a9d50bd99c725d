package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/tinycfg/lib/common"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/stats"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/gin-gonic/gin"
	"github.com/lni/dragonboat/v4/logger"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("server")

// ShutdownTimeout bounds how long in-flight requests may take after a shutdown signal
const ShutdownTimeout = 5 * time.Second

// ConfigServer exposes a single configuration store over http.
// All requests touching the store are serialized through one mutex.
type ConfigServer struct {
	config common.ServerConfig
	store  store.IConfigStore
	stats  *stats.Collector
	codec  document.ICodec
	engine *gin.Engine
	mu     sync.Mutex
}

// NewConfigServer creates a new http admin server for s. The collector is
// optional, without it /metrics is not registered.
//
// Usage:
//
//	srv := server.NewConfigServer(config, s, stats.NewCollector("tinycfg"))
//	if err := srv.Serve(); err != nil {
//		panic(err)
//	}
func NewConfigServer(config common.ServerConfig, s store.IConfigStore, collector *stats.Collector) *ConfigServer {
	srv := &ConfigServer{
		config: config,
		store:  s,
		stats:  collector,
		codec:  document.NewJSONCodec(),
	}
	srv.engine = srv.routes()

	Logger.Infof("created config server")
	Logger.Infof("%s", config.String())
	return srv
}

// Handler returns the http handler of the server, the store must already be started
func (s *ConfigServer) Handler() http.Handler {
	return s.engine
}

// Serve starts the store and listens on the configured endpoint until SIGINT
// or SIGTERM is received. The store is stopped before Serve returns.
func (s *ConfigServer) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ServeContext(ctx)
}

// ServeContext is like Serve but shuts down when ctx is done
func (s *ConfigServer) ServeContext(ctx context.Context) error {
	s.mu.Lock()
	started := s.store.Start() || s.store.LastError() == store.KindAlreadyRunning
	err := s.store.Err()
	s.mu.Unlock()
	if !started {
		return fmt.Errorf("starting store: %w", err)
	}
	defer s.stopStore()

	httpServer := &http.Server{
		Addr:    s.config.Endpoint,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Infof("listening on %s", s.config.Endpoint)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		Logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *ConfigServer) stopStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Stop() {
		Logger.Warningf("stopping store: %v", s.store.Err())
	}
}

func (s *ConfigServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/", s.serialize)
	api.GET("/config", s.getAll)
	api.GET("/config/:key", s.get)
	api.PUT("/config/:key", s.set)
	api.DELETE("/config/:key", s.deleteKey)
	api.POST("/config/delete", s.deleteKeys)
	api.POST("/reset", s.reset)
	api.GET("/max-size", s.getMaxSize)
	api.PUT("/max-size", s.setMaxSize)

	if s.stats != nil {
		r.GET("/metrics", s.metrics)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "route not found"})
	})
	return r
}

// serialize holds the store mutex for the rest of the handler chain
func (s *ConfigServer) serialize(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Next()
}

// requestLogger logs every request at debug level
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		Logger.Debugf("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
