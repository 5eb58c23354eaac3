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
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/periodize/internal/api"
	"github.com/2beens/periodize/internal/cache"
	"github.com/2beens/periodize/internal/config"
	"github.com/2beens/periodize/internal/db"
	"github.com/2beens/periodize/internal/events"
	"github.com/2beens/periodize/internal/middleware"
	"github.com/2beens/periodize/internal/store/memstore"
	"github.com/2beens/periodize/internal/store/pgstore"
	"github.com/2beens/periodize/internal/telemetry/metrics"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/internal/training/periodization"
	"github.com/2beens/periodize/internal/training/planner"
	"github.com/2beens/periodize/internal/training/volume"
)

type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close() error
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	publisher   eventPublisher
	handler     *api.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config  *config.Config
	Secrets config.Secrets
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	landmarkTable, err := cfg.LandmarkTable()
	if err != nil {
		return nil, fmt.Errorf("landmark table: %w", err)
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		otelShutdown: otelShutdown,
		publisher:    events.NopPublisher{},
	}

	var collectors []prometheus.Collector
	templates := cache.NewTemplateCache(
		periodization.NewCatalog(periodization.BuiltinTemplates()),
		cfg.TemplateCacheSizeMB,
		cfg.TemplateCacheExpireSecs,
	)

	var (
		volumeService  *volume.Service
		programService *periodization.Service
		engine         *objectives.Engine
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.Secrets.PostgresPassword,
			MaxConns:       cfg.PostgresMaxConns,
			TracingEnabled: params.Secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		store := pgstore.New(s.dbPool)
		if err := store.Migrate(ctx); err != nil {
			s.dbPool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		volumeService = volume.NewService(store, landmarkTable)
		programService = periodization.NewService(store, templates)
		engine = objectives.NewEngine(store, store)
	default:
		log.Warnln("using in-memory storage, data is lost on restart")
		store := memstore.New()
		volumeService = volume.NewService(store, landmarkTable)
		programService = periodization.NewService(store, templates)
		engine = objectives.NewEngine(store, store)
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("periodize", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	var summaries interface {
		Summary(ctx context.Context, userID string) ([]volume.Summary, error)
		Invalidate(ctx context.Context, userID string)
	} = cache.NewUncachedSummary(volumeService)
	if cfg.RedisEnabled() {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.Secrets.RedisPassword,
			DB:       0, // use default DB
		})
		s.redisClient.AddHook(redisotel.NewTracingHook())

		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		summaries = cache.NewSummaryCache(s.redisClient, volumeService, cfg.SummaryCacheTTL())
	}

	if len(cfg.KafkaBrokers) > 0 {
		s.publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Debugln("no kafka brokers configured, domain events are dropped")
	}

	s.handler = api.NewHandler(api.HandlerParams{
		Volume:         volumeService,
		Summaries:      summaries,
		Planner:        planner.New(volumeService),
		Programs:       programService,
		Objectives:     engine,
		Publisher:      s.publisher,
		MetricsManager: s.metricsManager,
	})

	return s, nil
}

func (s *Server) routerSetup() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("periodize-router"))

	var rateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}
	s.handler.SetupRoutes(r, rateLimiter, s.config.RateLimitPerMinute)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	// outside the router so preflight requests get answered for every route
	return middleware.Cors(s.config.AllowedOrigins)(r)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	if s.config.MetricsPort != "" {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{},
		))
		metricsAddr := net.JoinHostPort(s.config.MetricsHost, s.config.MetricsPort)
		s.metricsHttpServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsRouter,
		}

		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before closing what they depend on
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if err := s.publisher.Close(); err != nil {
		log.Errorf("failed to close event publisher: %s", err)
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

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
