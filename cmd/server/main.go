package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sewa-be/internal/cart"
	"sewa-be/internal/config"
	"sewa-be/internal/db"
	"sewa-be/internal/handler"
	"sewa-be/internal/idempotency"
	"sewa-be/internal/logger"
	"sewa-be/internal/metrics"
	"sewa-be/internal/middleware"
	"sewa-be/internal/order"
	"sewa-be/internal/outbox"
	"sewa-be/internal/product"
	"sewa-be/internal/sellerrequest"
	"sewa-be/internal/shipping"
	"sewa-be/internal/user"
	"sewa-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc = db.InitDB
	serveFunc  = serve
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

// app holds everything built from config that outlives a single request.
type app struct {
	router  http.Handler
	limiter *middleware.RateLimiter
	store   idempotency.Store
	relay   *outbox.Relay
	reg     *prometheus.Registry
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.L().Warn("close failed", zap.Error(err))
		}
	}
}

func newApp(cfg *config.Config, database *sql.DB) *app {
	a := &app{
		limiter: middleware.NewRateLimiter(),
		store:   idempotency.NoopStore{},
		reg:     prometheus.NewRegistry(),
	}
	a.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		a.store = idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL)
		a.closers = append(a.closers, rdb.Close)
	} else {
		logger.L().Info("REDIS_ADDR not set, checkout idempotency keys are ignored")
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub := outbox.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		a.relay = outbox.NewRelay(outbox.NewRepository(database), pub, cfg.OutboxPollInterval, metrics.NewRelayMetrics(a.reg))
		a.closers = append(a.closers, pub.Close)
	} else {
		logger.L().Info("KAFKA_BROKERS not set, outbox relay disabled")
	}

	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database)

	h := &handler.Handler{
		UserSvc:          user.NewService(user.NewRepository(database), cfg.JWTSecret),
		ProductSvc:       product.NewService(productRepo),
		CartSvc:          cart.NewService(cart.NewRepository(database), productRepo),
		OrderSvc:         order.NewService(orderRepo),
		ShippingSvc:      shipping.NewService(shipping.NewRepository(database), orderRepo),
		SellerRequestSvc: sellerrequest.NewService(sellerrequest.NewRepository(database)),
		Idempotency:      a.store,
		SecureCookie:     cfg.AppEnv == "production",
	}

	a.router = setupRouter(cfg, a.limiter, a.reg, h.Routes())
	return a
}

func setupRouter(cfg *config.Config, limiter *middleware.RateLimiter, reg *prometheus.Registry, api http.Handler) *chi.Mux {
	r := chi.NewRouter()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	r.Use(logger.RequestIDMiddleware)
	r.Use(chimw.RealIP)
	r.Use(logger.LoggingMiddleware)
	r.Use(httpMetrics.Middleware)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.Authenticate(cfg.JWTSecret))
	r.Use(limiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	r.Mount("/api/v1", api)

	return r
}

// run blocks until ctx is cancelled or the HTTP server stops.
func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	a := newApp(cfg, database)
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		logger.L().Info("http server listening", zap.String("port", cfg.AppPort))
		return serveFunc(gctx, ":"+cfg.AppPort, a.router)
	})
	g.Go(func() error {
		return a.limiter.Run(gctx)
	})
	if a.relay != nil {
		g.Go(func() error {
			return a.relay.Run(gctx)
		})
	}

	return g.Wait()
}

func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
