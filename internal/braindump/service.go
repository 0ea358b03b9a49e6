package braindump

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/cache"
	"github.com/fyrsmithlabs/braindump/internal/config"
	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/fyrsmithlabs/braindump/internal/logging"
	"github.com/fyrsmithlabs/braindump/internal/secrets"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/braindump/internal/braindump"

// Service converts brain-dump text into an extraction.Result.
type Service struct {
	registry *extraction.Registry
	cache    *cache.Cache
	scrubber secrets.Scrubber
	logger   *logging.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScrubber redacts secrets from text before it is cached or sent.
func WithScrubber(sc secrets.Scrubber) Option {
	return func(s *Service) {
		if sc != nil {
			s.scrubber = sc
		}
	}
}

// WithClock overrides the time source used to anchor relative dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records backend metrics. Nil disables them.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for extraction spans. The default comes from the
// global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewService creates a Service. A nil cache disables caching regardless of
// per-call configuration.
func NewService(registry *extraction.Registry, c *cache.Cache, opts ...Option) *Service {
	if registry == nil {
		registry = extraction.DefaultRegistry(nil)
	}
	s := &Service{
		registry: registry,
		cache:    c,
		scrubber: secrets.NoopScrubber{},
		logger:   logging.NewNop(),
		tracer:   otel.Tracer(instrumentationName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessText extracts records from text using the backend named in cfg.
//
// Configuration problems fail before any network I/O. When caching is
// enabled in cfg, an unexpired result for the same fingerprint is returned
// without contacting the backend, usage included. Every error carries an
// extraction.Kind.
func (s *Service) ProcessText(ctx context.Context, text string, cfg config.AIConfig) (res *extraction.Result, err error) {
	backend, ok := extraction.ParseBackend(string(cfg.Backend))
	if !ok {
		return nil, extraction.NewConfigurationError(cfg.Backend, "unknown AI backend")
	}
	if backend == extraction.BackendNone {
		return nil, extraction.NewConfigurationError(backend, "no AI backend selected")
	}
	if strings.TrimSpace(cfg.APIKey.Value()) == "" {
		return nil, extraction.NewConfigurationError(backend, "API key is required")
	}

	adapter, err := s.adapterFor(backend, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	model, err := resolveModel(adapter, cfg.Model)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "braindump.ProcessText",
		trace.WithAttributes(
			attribute.String("llm.backend", string(backend)),
			attribute.String("llm.model", model),
			attribute.Bool("cache.enabled", cfg.CacheEnabled),
		),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := s.logger.With(zap.String("backend", string(backend)), zap.String("model", model))

	scrubbed := s.scrubber.Scrub(text)
	if scrubbed.HasFindings() {
		log.Warn(ctx, "secrets redacted from input", zap.String("summary", scrubbed.Summary()))
	}
	text = scrubbed.Scrubbed

	var key string
	useCache := cfg.CacheEnabled && s.cache != nil
	if useCache {
		key, err = cache.Fingerprint(cache.Key{
			Text:        text,
			Backend:     string(backend),
			Model:       model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Categories:  cfg.Categories,
		})
		if err != nil {
			return nil, extraction.NewUnknownError(backend, err)
		}
		if cached, hit := s.cache.Get(key); hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			log.Debug(ctx, "cache hit", zap.String("fingerprint", key))
			return cached, nil
		}
		log.Debug(ctx, "cache miss", zap.String("fingerprint", key))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	res, err = adapter.ProcessText(ctx, text, cfg.APIKey.Value(), model, extraction.Options{
		Temperature: extraction.Temp(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
		Categories:  cfg.Categories,
		Now:         s.now(),
	})
	if err != nil {
		err = extraction.Normalize(backend, err)
		kind := extraction.KindOf(err)
		s.metrics.record(string(backend), string(kind), 0)
		log.Warn(ctx, "extraction failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	tokens := 0
	if res.Usage != nil {
		tokens = res.Usage.TotalTokens
	}
	s.metrics.record(string(backend), outcomeOK, tokens)
	log.Debug(ctx, "extraction completed",
		zap.Int("tasks", len(res.Tasks)),
		zap.Int("habits", len(res.Habits)),
		zap.Int("events", len(res.Events)),
		zap.Int("sleep", len(res.SleepSchedules)),
		zap.Int("tokens", tokens),
	)

	if useCache {
		s.cache.Set(key, res)
	}
	return res, nil
}

// ClearCache drops every cached result.
func (s *Service) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// AvailableModels lists the models a backend accepts.
func (s *Service) AvailableModels(backend extraction.Backend) ([]extraction.ModelInfo, error) {
	b, ok := extraction.ParseBackend(string(backend))
	if !ok {
		return nil, extraction.NewConfigurationError(backend, "unknown AI backend")
	}
	return s.registry.AvailableModels(b)
}

// adapterFor returns the registered adapter, or a dedicated one when the
// caller overrides the endpoint.
func (s *Service) adapterFor(backend extraction.Backend, baseURL string) (extraction.Adapter, error) {
	if baseURL != "" {
		return extraction.NewAdapter(backend, extraction.Config{BaseURL: baseURL})
	}
	return s.registry.Lookup(backend)
}

// resolveModel maps an empty model to the adapter's default so that the
// fingerprint names the model actually used.
func resolveModel(a extraction.Adapter, model string) (string, error) {
	models := a.AvailableModels()
	if model == "" {
		if len(models) == 0 {
			return "", extraction.NewConfigurationError(a.Backend(), "backend advertises no models")
		}
		return models[0].ID, nil
	}
	for _, m := range models {
		if m.ID == model {
			return model, nil
		}
	}
	return "", extraction.NewConfigurationError(a.Backend(), fmt.Sprintf("unsupported model %q", model))
}
