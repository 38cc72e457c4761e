package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/cache"
	"nfl_pickem/service/internal/client"
	"nfl_pickem/service/internal/config"
	"nfl_pickem/service/internal/metrics"
	"nfl_pickem/service/internal/notify"
	"nfl_pickem/service/internal/repository"
	"nfl_pickem/service/internal/schedule"
	"nfl_pickem/service/internal/scheduler"
	"nfl_pickem/service/internal/season"
	"nfl_pickem/service/internal/service"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting NFL Pick'em Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize database connection
	dbConfig := repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}

	db, err := repository.NewDatabase(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize Redis client. The feed adapter degrades to direct feed
	// calls when the cache is unavailable.
	var feedCache schedule.ByteCache
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
	} else {
		defer redisCache.Close()
		feedCache = redisCache
		log.Info().Msg("Redis cache connected")
	}

	// Initialize the schedule feed and its normalizing adapter
	feed := client.NewFeedClient(cfg.FeedBaseURL, cfg.FeedAPIKey, cfg.FeedLeagueID, cfg.FeedTimeout)
	sched := schedule.NewAdapter(feed, feedCache, cfg.FeedCacheTTL)
	log.Info().Msg("Schedule feed client initialized")

	// Initialize identity provider client
	identity := client.NewIdentityClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.IdentityTimeout)

	// Season calendar: config is validated, so these cannot fail here.
	anchor, err := cfg.AnchorDate()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid season anchor")
	}
	seasonYear, err := cfg.Season()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid season year")
	}
	calendar := season.NewCalendar(anchor, seasonYear)

	// Assemble the contest service
	pickem := service.NewPickem(identity, db.Users, db.Picks, sched, calendar)

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort), db)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start the notification scheduler
	var messenger notify.Messenger
	if cfg.SMSConfigured() {
		messenger = notify.NewTwilioMessenger(cfg.SMSBaseURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFromNumber, cfg.SMSTimeout)
		log.Info().Str("from", cfg.SMSFromNumber).Msg("SMS messenger configured")
	} else {
		messenger = notify.NopMessenger{}
		log.Warn().Msg("SMS not configured - notifications will be dropped")
	}

	notifier := scheduler.NewScheduler(cfg, db.Users, pickem, messenger)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := notifier.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	log.Info().
		Int("week", pickem.CurrentWeek()).
		Int("season", seasonYear).
		Msg("Worker ready")

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	notifier.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string, db *repository.Database) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
