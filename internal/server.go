package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/traininggrounds/internal/briefing"
	"github.com/2beens/traininggrounds/internal/briefing/history"
	"github.com/2beens/traininggrounds/internal/coachapi"
	"github.com/2beens/traininggrounds/internal/config"
	"github.com/2beens/traininggrounds/internal/db"
	"github.com/2beens/traininggrounds/internal/middleware"
	"github.com/2beens/traininggrounds/internal/telemetry/metrics"
	"github.com/2beens/traininggrounds/internal/telemetry/tracing"
	"github.com/2beens/traininggrounds/internal/upgradeprompt"
	"github.com/2beens/traininggrounds/pkg"
)

const (
	UpgradePromptStoreRedis  = "redis"
	UpgradePromptStoreMemory = "memory"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	clock       clockwork.Clock
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	coachClient *coachapi.Client
	historyRepo *history.Repo // nil when history is disabled
	retention   *history.Retention
	promptStore upgradeprompt.Store
	rateLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	CoachApiToken           string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var (
		dbPool         *pgxpool.Pool
		promCollectors []prometheus.Collector
	)
	if cfg.HistoryEnabled {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         params.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		promCollectors = append(promCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	promRegistry := metrics.SetupPrometheus(promCollectors...)
	metricsManager := metrics.NewManager("backend", "briefing", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "briefing-service", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Duration(cfg.CoachApiTimeoutSeconds) * time.Second,
	}

	promptStore, err := newPromptStore(cfg.UpgradePromptStore, rdb)
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewRealClock()
	s := &Server{
		config:      cfg,
		clock:       clock,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		coachClient: coachapi.NewClient(coachapi.ClientParams{
			BaseURL:            cfg.CoachApiBaseURL,
			ServiceToken:       params.CoachApiToken,
			HttpClient:         tracedHttpClient,
			CacheExpireSeconds: cfg.CoachApiCacheExpireSeconds,
			MetricsManager:     metricsManager,
		}),
		promptStore: promptStore,
		rateLimiter: redis_rate.NewLimiter(rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if dbPool != nil {
		s.historyRepo = history.NewRepo(dbPool)
		if err := s.historyRepo.EnsureSchema(ctx); err != nil {
			log.Errorf("ensure briefing history schema: %s", err)
		}
		s.retention = history.NewRetention(
			s.historyRepo,
			cfg.HistoryRetentionDays,
			time.Duration(cfg.HistoryCleanupIntervalMin)*time.Minute,
			clock,
			metricsManager,
		)
	}

	return s, nil
}

func newPromptStore(kind string, rdb *redis.Client) (upgradeprompt.Store, error) {
	switch kind {
	case UpgradePromptStoreRedis:
		return upgradeprompt.NewRedisStore(rdb), nil
	case UpgradePromptStoreMemory:
		return upgradeprompt.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown upgrade prompt store: %s", kind)
	}
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("briefing-router"))

	serviceParams := briefing.ServiceParams{
		Reports:        s.coachClient,
		Workouts:       s.coachClient,
		Clock:          s.clock,
		MetricsManager: s.metricsManager,
	}
	if s.historyRepo != nil {
		serviceParams.History = s.historyRepo
	}
	briefingHandler := briefing.NewHandler(briefing.NewService(serviceParams))
	briefingHandler.SetupRoutes(r)

	if s.historyRepo != nil {
		historyHandler := history.NewHandler(s.historyRepo)
		historyHandler.SetupRoutes(r)
	}

	upgradePromptHandler := upgradeprompt.NewHandler(s.promptStore, s.clock, s.metricsManager)
	upgradePromptHandler.SetupRoutes(r)

	r.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS").Name("health")
	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	if s.rateLimiter != nil {
		r.Use(middleware.RateLimit(
			s.rateLimiter,
			s.metricsManager,
			s.config.BriefingRateLimitPerMin,
			"get-briefing", "list-briefing-history",
		))
	}
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	if s.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("briefing service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	if s.retention != nil {
		if err := s.retention.Start(ctx); err != nil {
			log.Errorf("failed to start briefing history retention: %s", err)
		}
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.retention != nil {
		if err := s.retention.Stop(); err != nil {
			log.Errorf("failed to stop briefing history retention: %s", err)
		}
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
		log.Warnln("metrics server shut down")
	}
	if shutdownErr != nil {
		log.Errorf(" >>> failed to gracefully shutdown http servers: %s", shutdownErr)
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
