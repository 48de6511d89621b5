package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/crewscheduler/backend/internal/ai"
	"github.com/crewscheduler/backend/internal/auth"
	"github.com/crewscheduler/backend/internal/chatbot"
	"github.com/crewscheduler/backend/internal/config"
	"github.com/crewscheduler/backend/internal/datastore"
	"github.com/crewscheduler/backend/internal/db"
	"github.com/crewscheduler/backend/internal/events"
	httpapi "github.com/crewscheduler/backend/internal/http"
	"github.com/crewscheduler/backend/internal/http/handlers"
	"github.com/crewscheduler/backend/internal/metrics"
	"github.com/crewscheduler/backend/internal/models"
	"github.com/crewscheduler/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "crew-assistant").Logger()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source datastore.Source
	if cfg.DataSource == "postgres" {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		source = pg
	} else {
		source, err = datastore.FileSource(cfg.DataSource, cfg.DataPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid data source")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := metrics.NewChat(reg)

	store := datastore.NewStore(source, logger)
	_, loadErr := store.Reload(ctx)
	if loadErr != nil {
		logger.Error().Err(loadErr).Msg("initial data load failed; serving load error until the source is fixed")
	}
	chatMetrics.IncReload(loadErr == nil)

	assistant, closeAssistant := buildAssistant(ctx, cfg, logger)
	defer closeAssistant()
	provider := cfg.AIProvider
	if assistant == nil {
		provider = "none"
	}

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := events.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		logger.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("publishing chat events")
	}
	defer publisher.Close()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn().Msg("JWT_SECRET not set, using a random secret; sessions end on restart")
	}

	responder := chatbot.New(store, chatbot.WithLocation(loc), chatbot.WithLogger(logger))
	h := &handlers.Handler{
		Data:   store,
		Source: source,
		Chat: &service.ChatService{
			Responder: responder,
			Assistant: assistant,
			AITimeout: cfg.AITimeout,
			Metrics:   chatMetrics,
			Events:    publisher,
			Logger:    logger,
		},
		Auth:         auth.NewAuthenticator(store),
		Tokens:       auth.TokenConfig{Secret: secret, Issuer: cfg.JWTIssuer, TTL: cfg.SessionTTL},
		SecureCookie: cfg.Env != "dev",
		AIProvider:   provider,
		Location:     loc,
		Metrics:      chatMetrics,
		Validator:    validator.New(),
		Logger:       logger,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.Router(cfg, h, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Str("data_source", source.Kind()).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.DataWatch && cfg.DataSource != "postgres" {
		w := &datastore.Watcher{Path: cfg.DataPath, Store: reloadCounter{store, chatMetrics}, Logger: logger}
		g.Go(func() error { return w.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

// reloadCounter counts watcher-triggered reloads.
type reloadCounter struct {
	store   *datastore.Store
	metrics *metrics.Chat
}

func (r reloadCounter) Reload(ctx context.Context) (*models.Snapshot, error) {
	snap, err := r.store.Reload(ctx)
	r.metrics.IncReload(err == nil)
	return snap, err
}

func buildAssistant(ctx context.Context, cfg config.Config, logger zerolog.Logger) (ai.Assistant, func()) {
	noop := func() {}
	if cfg.AIProvider == "none" {
		return nil, noop
	}

	var cache ai.Cache
	closeCache := noop
	if cfg.AICacheTTL > 0 {
		cache = ai.NewMemoryCache(cfg.AICacheTTL)
		if cfg.RedisURL != "" {
			rc, client, err := ai.NewRedisCacheFromURL(ctx, cfg.RedisURL, cfg.AICacheTTL)
			if err != nil {
				logger.Warn().Err(err).Msg("redis unavailable, caching answers in memory")
			} else {
				cache = rc
				closeCache = func() { _ = client.Close() }
			}
		}
	}

	switch cfg.AIProvider {
	case "mock":
		logger.Info().Msg("using mock AI assistant")
		return ai.MockAssistant{}, closeCache
	case "gemini":
		g, err := ai.NewGeminiAssistant(ctx, cfg.GeminiAPIKey, cfg.AIModel, cfg.AIMaxTokens, cache)
		if err != nil {
			logger.Error().Err(err).Msg("gemini assistant disabled")
			return nil, closeCache
		}
		return g, closeCache
	default:
		return ai.OpenAICompatAssistant{
			BaseURL:   cfg.AIURL,
			Model:     cfg.AIModel,
			APIKey:    cfg.AIAPIKey,
			MaxTokens: cfg.AIMaxTokens,
			Cache:     cache,
		}, closeCache
	}
}
