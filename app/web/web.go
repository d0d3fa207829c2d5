// Package web implements the HTTP API for job application records
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/invopop/jsonschema"

	"github.com/umputun/jobtrack/app/service/request"
	"github.com/umputun/jobtrack/app/store"
)

// Server represents the web server
type Server struct {
	apps        Applications
	version     string
	corsOrigins []string
	throttle    int
	rateLimit   float64
	schema      *jsonschema.Schema
}

// Applications defines record operations exposed over HTTP, implemented by service.Service
type Applications interface {
	List(ctx context.Context, f store.Filter) ([]store.Application, error)
	Get(ctx context.Context, id int64) (store.Application, error)
	Create(ctx context.Context, req request.Create) (store.Application, error)
	Update(ctx context.Context, id int64, p request.Patch) (store.Application, error)
	Delete(ctx context.Context, id int64) error
}

// Config holds server configuration
type Config struct {
	Applications Applications
	Version      string
	CORSOrigins  []string // allowed browser origins, "*" allows any
	Throttle     int      // max concurrent requests, 0 to disable
	RateLimit    float64  // write requests per second per client, 0 to disable
}

// New creates a new web server
func New(cfg Config) (*Server, error) {
	if cfg.Applications == nil {
		return nil, fmt.Errorf("web server initialization failed: Applications is required")
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("web server initialization failed: negative rate limit %v", cfg.RateLimit)
	}

	reflector := jsonschema.Reflector{RequiredFromJSONSchemaTags: true, DoNotReference: true}
	return &Server{
		apps:        cfg.Applications,
		version:     cfg.Version,
		corsOrigins: cfg.CORSOrigins,
		throttle:    cfg.Throttle,
		rateLimit:   cfg.RateLimit,
		schema:      reflector.Reflect(&store.Application{}),
	}, nil
}

// Run starts the web server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// handler returns the http.Handler with CORS wrapping applied.
// CORS sits outside of the router to answer preflight requests for any route.
func (s *Server) handler() http.Handler {
	return corsMiddleware(s.corsOrigins)(s.routes())
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// global middleware - applied to all routes
	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.AppInfo("jobtrack", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024), // 64KB max request size
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)
	if s.throttle > 0 {
		router.Use(rest.Throttle(int64(s.throttle)))
	}

	router.HandleFunc("GET /health", s.handleHealth)

	router.Group().Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache) // prevent caching of API responses

		api.HandleFunc("GET /applications", s.handleList)
		api.HandleFunc("GET /applications/{id}", s.handleGet)
		api.HandleFunc("GET /schema/application", s.handleSchema)

		// write endpoints are rate limited per client ip
		writes := api
		if lmt := s.writeLimiter(); lmt != nil {
			writes = api.With(lmt)
		}
		writes.HandleFunc("POST /applications", s.handleCreate)
		writes.HandleFunc("PUT /applications/{id}", s.handleUpdate)
		writes.HandleFunc("DELETE /applications/{id}", s.handleDelete)
	})

	return router
}

// writeLimiter returns tollbooth middleware for write endpoints, nil if rate limit disabled
func (s *Server) writeLimiter() func(http.Handler) http.Handler {
	if s.rateLimit == 0 {
		return nil
	}
	lmt := tollbooth.NewLimiter(s.rateLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"}) // rest.RealIP already resolved the client address
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"error":"rate limit exceeded"}`)
	return tollbooth.HTTPMiddleware(lmt)
}
