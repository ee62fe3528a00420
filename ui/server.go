package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"kcalcount/domain/core"
	"kcalcount/domain/view"
	"kcalcount/domain/workout"
	"kcalcount/internal"
)

// Predictor is the prediction capability the web surface needs.
type Predictor interface {
	Predict(ctx context.Context, req workout.PredictionRequest) (workout.Estimate, error)
	ModelName() string
}

// Options configures the HTTP server.
type Options struct {
	GinMode         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// ModelHash is reported by the health endpoint when set.
	ModelHash core.Hash
}

// Server represents the web server for the KCAL-COUNT UI
type Server struct {
	router    *gin.Engine
	predictor Predictor
	templates map[string]*template.Template
	content   map[string]template.HTML
	opts      Options
	log       *internal.Logger
}

// NewServer parses templates, renders the markdown pages once and wires routes.
func NewServer(predictor Predictor, opts Options, log *internal.Logger) (*Server, error) {
	if predictor == nil {
		return nil, errors.New("predictor cannot be nil")
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	s := &Server{
		router:    gin.New(),
		predictor: predictor,
		opts:      opts,
		log:       log,
	}

	var err error
	if s.templates, err = parseTemplates(assets); err != nil {
		return nil, err
	}
	if s.content, err = renderContent(assets); err != nil {
		return nil, err
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// renderContent converts the markdown of every content view.
func renderContent(fsys fs.FS) (map[string]template.HTML, error) {
	content := make(map[string]template.HTML)
	for _, v := range []view.View{view.Home{}, view.About{}, view.Info{}} {
		body, err := renderMarkdown(fsys, "content/"+v.Slug()+".md")
		if err != nil {
			return nil, err
		}
		content[v.Slug()] = body
	}
	return content, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	for _, v := range view.All() {
		s.router.GET(view.Path(v), s.viewHandler(v))
	}
	s.router.GET("/navigate", s.handleNavigate)
	s.router.POST("/predict", s.handlePredictForm)

	api := s.router.Group("/api")
	api.POST("/predict", s.handlePredictAPI)
	api.GET("/health", s.handleHealth)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for at most ShutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("Starting KCAL-COUNT UI on http://%s (model %s)", addr, s.predictor.ModelName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
