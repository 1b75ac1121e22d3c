package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/fcleague/internal/adapters/board"
	"github.com/okian/fcleague/internal/adapters/http/api"
	"github.com/okian/fcleague/internal/adapters/http/swagger"
	"github.com/okian/fcleague/internal/adapters/media"
	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/internal/adapters/repository"
	"github.com/okian/fcleague/internal/adapters/scheduler"
	app "github.com/okian/fcleague/internal/app"
	"github.com/okian/fcleague/internal/config"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	serviceStatsInterval  = 5 * time.Second
)

func main() {
	// The custom registry exports its own system gauges.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// The logger may not exist yet.
		os.Stderr.WriteString("fcleague: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	st, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		st.close(closeCtx)
	}()

	if err := st.svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	if st.cron != nil {
		if err := st.cron.Start(); err != nil {
			return fmt.Errorf("start reconcile cron: %w", err)
		}
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceStatsUpdater(ctx, st.svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           st.router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// stack is the wired process: the service, its router and what must be
// released on exit.
type stack struct {
	svc     *app.Service
	router  http.Handler
	cron    *scheduler.Scheduler
	closers []func() error
}

func (s *stack) close(ctx context.Context) {
	log := logger.Named("main")
	if s.cron != nil {
		if err := s.cron.Stop(ctx); err != nil {
			log.Warn(ctx, "reconcile cron stop", logger.Error(err))
		}
	}
	if err := s.svc.Stop(ctx); err != nil {
		log.Warn(ctx, "service stop", logger.Error(err))
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn(ctx, "close", logger.Error(err))
		}
	}
}

// wire builds every adapter cfg enables and the service on top of them.
// Redis, Kafka and object storage are optional; without them the service
// runs with no-op stand-ins.
func wire(ctx context.Context, cfg *config.Config, log logger.Logger) (*stack, error) {
	st := &stack{}
	fail := func(err error) (*stack, error) {
		for i := len(st.closers) - 1; i >= 0; i-- {
			_ = st.closers[i]()
		}
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	st.closers = append(st.closers, store.Close)

	var bettors board.Publisher = board.Noop{}
	if cfg.RedisAddr != "" {
		client, err := board.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fail(fmt.Errorf("redis: %w", err))
		}
		st.closers = append(st.closers, client.Close)
		bettors = board.NewRedisBoard(client,
			board.WithKeyPrefix(cfg.RedisKeyPrefix),
			board.WithLogger(log.Named("board")))
		log.Info(ctx, "bettor board on redis", logger.String("addr", cfg.RedisAddr))
	}

	var events kafka.Publisher = kafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.Dial(cfg.KafkaBrokers, cfg.KafkaTopic, kafka.WithLogger(log.Named("kafka")))
		if err != nil {
			return fail(fmt.Errorf("kafka: %w", err))
		}
		st.closers = append(st.closers, p.Close)
		events = p
		log.Info(ctx, "publishing events", logger.String("brokers", strings.Join(cfg.KafkaBrokers, ",")), logger.String("topic", cfg.KafkaTopic))
	}

	var uploader media.Uploader = media.Disabled{}
	u, err := media.New(ctx, media.Config{
		Bucket:    cfg.MediaBucket,
		Endpoint:  cfg.MediaEndpoint,
		Region:    cfg.MediaRegion,
		AccessKey: cfg.MediaAccessKey,
		SecretKey: cfg.MediaSecretKey,
		PublicURL: cfg.MediaPublicURL,
	})
	switch {
	case errors.Is(err, media.ErrDisabled):
		log.Info(ctx, "media uploads disabled")
	case err != nil:
		return fail(fmt.Errorf("media: %w", err))
	default:
		uploader = u
	}

	st.svc = app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithBoard(bettors),
		app.WithPublisher(events),
		app.WithUploader(uploader),
		app.WithPointTable(cfg.Points),
		app.WithOverUnderThreshold(cfg.OverUnderThreshold),
		app.WithSurpriseMargin(cfg.SurpriseMargin),
		app.WithScheduleInterval(cfg.ScheduleInterval),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
	)

	if cfg.ReconcileCron != "" {
		st.cron = scheduler.New(cfg.ReconcileCron, st.svc, scheduler.WithLogger(log.Named("scheduler")))
	}

	st.router = newRouter(cfg, st.svc)
	return st, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	driver := strings.ToLower(cfg.StorageDriver)
	if driver == config.DriverMemory {
		return repository.NewMemStore(), nil
	}
	store, err := repository.OpenSQL(ctx, driver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return store, nil
}

func newRouter(cfg *config.Config, svc *app.Service) http.Handler {
	r := chi.NewRouter()
	api.NewServer(svc,
		api.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		api.WithCORSOrigins(cfg.CORSOrigins),
	).Register(r)
	swagger.Register(r)
	return r
}

// startSystemMetricsUpdater refreshes the runtime gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceStatsUpdater polls GetStats, which refreshes the queue gauge.
func startServiceStatsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	stats, err := svc.GetStats(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "stats")
		return
	}
	if workers, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workers)
	}
}
