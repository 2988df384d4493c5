package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hukshh/fitchekk/internal/api"
	"github.com/hukshh/fitchekk/internal/auth"
	"github.com/hukshh/fitchekk/internal/config"
	"github.com/hukshh/fitchekk/internal/domain"
	"github.com/hukshh/fitchekk/internal/middleware"
	"github.com/hukshh/fitchekk/internal/outbox"
	persistence "github.com/hukshh/fitchekk/internal/persistence/postgres"
	httptransport "github.com/hukshh/fitchekk/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.WithField("service", "fitchekk-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	users := persistence.NewUserRepository(pool)
	exercises := persistence.NewExerciseRepository(pool)
	workouts := persistence.NewWorkoutRepository(pool)
	attendance := persistence.NewAttendanceRepository(pool)
	progress := persistence.NewProgressRepository(pool)
	catalog := persistence.NewCatalogRepository(pool)
	cart := persistence.NewCartRepository(pool)
	orders := persistence.NewOrderRepository(pool)

	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
	defer producer.Close()

	dispatcher := outbox.NewDispatcher(pool, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize, log)
	go dispatcher.Start(ctx)

	tokens := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.TokenTTL}
	services := api.Services{
		Users:      domain.NewUserService(users, auth.BcryptHasher{}),
		Exercises:  domain.NewExerciseService(exercises),
		Workouts:   domain.NewWorkoutService(workouts, exercises),
		Attendance: domain.NewAttendanceService(attendance),
		Progress:   domain.NewProgressService(progress),
		Catalog:    domain.NewCatalogService(catalog),
		Cart:       domain.NewCartService(cart, catalog),
		Orders:     domain.NewOrderService(orders),
	}

	handler := api.NewHandler(services, tokens)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(tokens, publicRoute)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, log)

	chain := middleware.RequestLogger(log)(
		middleware.CORS(cfg.FrontendOrigin)(
			authMiddleware.Wrap(
				rateLimiter.Handler(mux))))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, chain)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("address", cfg.HTTPAddress).Info("fitchekk api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}

	dispatcher.Wait()
}

// publicRoute marks the endpoints reachable without a bearer token. The
// storefront catalog is browsable before login; mutations are not.
func publicRoute(r *http.Request) bool {
	path := r.URL.Path
	switch path {
	case "/health", "/metrics":
		return true
	}
	if strings.HasPrefix(path, "/api/auth/") {
		return true
	}
	if r.Method == http.MethodGet && (path == "/api/categories" || path == "/api/products" || strings.HasPrefix(path, "/api/products/")) {
		return true
	}
	return r.Method == http.MethodOptions
}
