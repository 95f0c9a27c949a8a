package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"credit-risk/config"
	httpLayer "credit-risk/http"
	"credit-risk/metrics"
	"credit-risk/repository"
	"credit-risk/scoring"
	"credit-risk/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	scorer, err := scoring.Load(scoring.Format(cfg.ModelFormat), cfg.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("could not load model")
	}
	info := scorer.Info()
	log.Info().
		Str("format", string(info.Format)).
		Str("version", info.Version).
		Int("trees", info.Trees).
		Msg("model loaded")

	var (
		cache repository.ProbabilityCache
		ready func(*http.Request) error
	)
	switch cfg.CacheBackend {
	case config.CacheMemory:
		cache = repository.NewMemoryCache(cfg.CacheTTL)
	case config.CacheRedis:
		client, err := repository.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		redisCache := repository.NewRedisCache(client, cfg.CacheTTL)
		defer redisCache.Close()
		if err := redisCache.Ping(context.Background()); err != nil {
			// the cache is optional, so start anyway and let /readyz report it
			log.Warn().Err(err).Msg("redis not reachable")
		}
		cache = redisCache
		ready = func(r *http.Request) error {
			return redisCache.Ping(r.Context())
		}
	}
	log.Info().Str("backend", cfg.CacheBackend).Dur("ttl", cfg.CacheTTL).Msg("score cache configured")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	advisor := service.NewAdvisorService(service.AdvisorConfig{
		APIKey:  cfg.OpenAIKey,
		APIURL:  cfg.OpenAIURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.AdvisorTimeout,
	})
	if !advisor.Enabled() {
		log.Info().Msg("advisor disabled, using rule-based explanations")
	}

	riskService := service.NewRiskService(scorer, cache, advisor, m)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitRefill)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		Risk:        httpLayer.NewRiskHandler(riskService),
		Form:        httpLayer.NewFormHandler(riskService),
		Limiter:     rateLimiter,
		Metrics:     m,
		MetricsPage: metrics.Handler(reg),
		Ready:       ready,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("credit risk service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("error starting server")
		return
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server exited")
}
