package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/room-booking/internal/api/http/handlers"
	httptransport "github.com/spec-kit/room-booking/internal/api/http"
	"github.com/spec-kit/room-booking/internal/auth"
	"github.com/spec-kit/room-booking/internal/config"
	"github.com/spec-kit/room-booking/internal/events"
	"github.com/spec-kit/room-booking/internal/observability"
	"github.com/spec-kit/room-booking/internal/persistence"
	"github.com/spec-kit/room-booking/internal/repository"
	"github.com/spec-kit/room-booking/internal/service"
	"github.com/spec-kit/room-booking/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		userRepo        repository.UserRepository
		roomRepo        repository.RoomRepository
		reservationRepo repository.ReservationRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		roomRepo = repository.NewRoomRepository(pool)
		reservationRepo = repository.NewReservationRepository(pool)
	} else {
		userRepo = repository.NewMemoryUserRepository()
		roomRepo = repository.NewMemoryRoomRepository()
		reservationRepo = repository.NewMemoryReservationRepository()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var revocation auth.RevocationStore
	if redis.Available(ctx) {
		revocation = auth.NewRedisRevocationStore(redis.Client)
	} else {
		logger.Warn("redis unavailable; logout revocation is process-local")
		revocation = auth.NewMemoryRevocationStore()
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Revocation: revocation,
		Dispatcher: dispatcher,
	})
	roomService := service.NewRoomService(service.RoomDependencies{
		RoomRepo:   roomRepo,
		Dispatcher: dispatcher,
	})
	reservationService := service.NewReservationService(service.ReservationDependencies{
		ReservationRepo: reservationRepo,
		RoomRepo:        roomRepo,
		Dispatcher:      dispatcher,
	})
	queryService := service.NewQueryService(reservationRepo, roomRepo, nil)

	if cfg.Rooms.SeedFixtures {
		if err := persistence.SeedRooms(ctx, roomRepo, logger); err != nil {
			logger.Fatal("failed to seed rooms", zap.Error(err))
		}
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revocation)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService),
		Reservations:   handlers.NewReservationsHandler(reservationService, queryService),
		AdminRooms:     handlers.NewAdminRoomsHandler(roomService),
		AdminUsers:     handlers.NewAdminUsersHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
