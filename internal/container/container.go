package container

import (
	"context"
	"fmt"

	"kcalcount/adapters/excel"
	"kcalcount/adapters/modelstore"
	"kcalcount/app"
	"kcalcount/domain/core"
	"kcalcount/internal"
	"kcalcount/internal/config"
	"kcalcount/internal/errors"
	"kcalcount/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Model is loaded once and shared read-only by every request.
	Model     ports.RegressionModel
	ModelHash core.Hash

	// Services
	Predictor *app.PredictionService
}

// New creates the container and loads the model artifact. A missing or
// incompatible artifact fails here with MODEL_UNAVAILABLE so that no server
// or command is ever built around it.
func New(cfg *config.Config, log *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: log,
	}

	if err := c.initModel(); err != nil {
		return nil, err
	}
	c.Predictor = app.NewPredictionService(c.Model, log)

	log.Info("Container initialized with model %s (sha256 %s)", c.Model.Name(), c.ModelHash.Short())
	return c, nil
}

// initModel loads the configured artifact
func (c *Container) initModel() error {
	kind, err := modelstore.ParseKind(c.Config.Model.Type)
	if err != nil {
		return errors.ModelUnavailable(c.Config.Model.Path, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err))
	}

	model, err := modelstore.NewLoader(kind, modelstore.Options{
		BaseScore: c.Config.Model.BaseScore,
	}).Load(c.Config.Model.Path)
	if err != nil {
		c.Logger.Error("Failed to load model %s: %v", c.Config.Model.Path, err)
		return err
	}
	c.Model = model

	if c.ModelHash, err = modelstore.Fingerprint(c.Config.Model.Path); err != nil {
		c.Logger.Warn("Could not fingerprint model %s: %v", c.Config.Model.Path, err)
	}
	return nil
}

// Evaluator builds an evaluation service over a labelled sample sheet
func (c *Container) Evaluator(sheet excel.SheetConfig) *app.EvaluationService {
	source := excel.NewSampleSource(sheet, c.Logger)
	return app.NewEvaluationService(c.Predictor, source, c.Logger)
}

// Shutdown flushes the logger. The model holds no external resources.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Sync on stderr returns EINVAL on some platforms; nothing to recover.
	_ = c.Logger.Sync()
	return nil
}
