package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"example.com/storefront/app/internal/config"
	domres "example.com/storefront/app/internal/domain/reservation"
	"example.com/storefront/app/internal/infra/lock"
	"example.com/storefront/app/internal/infra/logging"
	"example.com/storefront/app/internal/infra/persistence/memory"
	"example.com/storefront/app/internal/infra/persistence/mysql"
	"example.com/storefront/app/internal/infra/persistence/postgres"
	"example.com/storefront/app/internal/infra/security"
	apihttp "example.com/storefront/app/internal/interface/http"
	"example.com/storefront/app/internal/interface/worker"
	authuc "example.com/storefront/app/internal/usecase/auth"
	cartuc "example.com/storefront/app/internal/usecase/cart"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
	inventoryuc "example.com/storefront/app/internal/usecase/inventory"
	orderuc "example.com/storefront/app/internal/usecase/order"
	productuc "example.com/storefront/app/internal/usecase/product"
	reservationuc "example.com/storefront/app/internal/usecase/reservation"
	"example.com/storefront/app/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := migrations.UpMySQL(cfg.MySQLDSN); err != nil {
			return err
		}
	}

	db, err := mysql.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	health := map[string]apihttp.Pinger{
		"mysql": db.PingContext,
	}

	var reservationRepo domres.Repository
	switch cfg.ReservationStore {
	case config.StoreMemory:
		reservationRepo = memory.NewReservationRepository()
	case config.StorePostgres:
		pool, err := openPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		reservationRepo = postgres.NewReservationRepository(pool)
		health["pg"] = pool.Ping
	default:
		reservationRepo = mysql.NewReservationRepository(db)
	}

	var locker worker.Locker
	if cfg.RedisEnabled() {
		client, err := lock.NewRedisClient(cfg.RedisURL, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()
		health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		locker = lock.NewRedisLocker(client)
		logger.Info("sweep lock backed by redis", zap.String("addr", client.Options().Addr))
	}

	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	userRepo := mysql.NewUserRepository(db)

	inventorySvc := inventoryuc.NewService(productRepo, reservationRepo, logger.Named("inventory"))
	reservationSvc := reservationuc.NewService(reservationRepo, inventorySvc, cfg.ReservationTTL, logger.Named("reservation"))
	tokenSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	api := apihttp.NewAPI(apihttp.Dependencies{
		AuthService:        authuc.NewService(userRepo, security.NewBcryptService(cfg.BcryptCost), tokenSvc, reservationSvc, logger.Named("auth")),
		ProductService:     productuc.NewService(productRepo),
		InventoryService:   inventorySvc,
		ReservationService: reservationSvc,
		CartService:        cartuc.NewService(reservationSvc, productRepo),
		CheckoutService:    checkoutuc.NewService(reservationSvc, orderRepo, logger.Named("checkout")),
		OrderService:       orderuc.NewService(orderRepo),
		TokenService:       tokenSvc,
		HealthChecks:       health,
		Logger:             logger.Named("http"),
	})

	sweeper := worker.NewExpirySweeper(reservationSvc, locker, cfg.SweepInterval, cfg.SweepLockTTL, logger.Named("sweeper"))
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.String("reservation_store", cfg.ReservationStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func openPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.RunMigrations {
		if err := migrations.UpPostgres(cfg.PostgresDSN); err != nil {
			return nil, err
		}
	}
	return postgres.NewPool(ctx, cfg.PostgresDSN)
}
