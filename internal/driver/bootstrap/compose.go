// Compose root for driver-service: driver onboarding, the pending pool,
// the accept race and the location feed.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/medehssane/tewsilty/internal/driver/adapters/in/in_amqp"
	"github.com/medehssane/tewsilty/internal/driver/adapters/in/in_ws"
	"github.com/medehssane/tewsilty/internal/driver/adapters/in/transport"
	"github.com/medehssane/tewsilty/internal/driver/adapters/out/loccache"
	"github.com/medehssane/tewsilty/internal/driver/adapters/out/out_amqp"
	driverrepo "github.com/medehssane/tewsilty/internal/driver/adapters/out/repo"
	driverusecase "github.com/medehssane/tewsilty/internal/driver/application/usecase"
	"github.com/medehssane/tewsilty/internal/model"
	orderamqp "github.com/medehssane/tewsilty/internal/order/adapters/out/out_amqp"
	orderrepo "github.com/medehssane/tewsilty/internal/order/adapters/out/repo"
	orderusecase "github.com/medehssane/tewsilty/internal/order/application/usecase"
	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/config"
	"github.com/medehssane/tewsilty/internal/shared/db"
	"github.com/medehssane/tewsilty/internal/shared/guard"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
	"github.com/medehssane/tewsilty/internal/shared/observability"
	"github.com/medehssane/tewsilty/internal/shared/user"
	"github.com/medehssane/tewsilty/internal/shared/ws"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "driver_service_starting", Message: "initializing driver service"})

	// infrastructure
	dbPool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db.Close(dbPool, log)

	if err := db.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(ctx, mqConn, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	locationCache := loccache.NewRedisLocationCache(cfg.Redis, log)
	if err := locationCache.Ping(ctx); err != nil {
		log.Fatal(logger.Entry{
			Action:  "redis_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer func() { _ = locationCache.Close() }()

	jwtService := auth.NewJWTService(cfg.JWT)

	// websocket hub for drivers
	hub := ws.NewHub(jwtService.ExtractUserID, log)

	// repositories
	ordRepo := orderrepo.NewOrderPgRepository(dbPool, log)
	drvRepo := driverrepo.NewDriverPgRepository(dbPool, log)
	userRepo := user.NewPgRepository(dbPool, log)

	// outbound adapters
	eventPublisher := orderamqp.NewEventPublisher(mqConn, log)
	locationPublisher := out_amqp.NewLocationPublisher(mqConn, log)

	// services and use cases
	userSvc := user.NewService(userRepo, jwtService, log)
	registerUC := driverusecase.NewRegisterDriverService(userSvc, drvRepo, log)
	locationUC := driverusecase.NewUpdateLocationService(locationCache, locationPublisher, log)

	listUC := orderusecase.NewListDriverOrdersService(ordRepo, log)
	getUC := orderusecase.NewGetOrderService(ordRepo, log)
	acceptUC := orderusecase.NewAcceptOrderService(ordRepo, drvRepo, locationCache.Locator(), eventPublisher, log)
	startUC := orderusecase.NewStartOrderService(ordRepo, eventPublisher, log)
	completeUC := orderusecase.NewCompleteOrderService(ordRepo, eventPublisher, log)
	cancelUC := orderusecase.NewCancelOrderService(ordRepo, eventPublisher, log)

	// websocket inbound: location stream
	wsHandler := in_ws.NewDriverWSHandler(locationUC, log)
	hub.SetMessageHandler(wsHandler.Handle)
	go hub.Run(ctx)

	// consumers: new pending orders and verification decisions
	orderCreatedConsumer := in_amqp.NewOrderCreatedConsumer(mqConn, hub, log)
	if err := orderCreatedConsumer.Start(ctx); err != nil {
		log.Error(logger.Entry{
			Action:  "order_created_consumer_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	verificationConsumer := in_amqp.NewVerificationConsumer(mqConn, hub, log)
	if err := verificationConsumer.Start(ctx); err != nil {
		log.Error(logger.Entry{
			Action:  "verification_consumer_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// http
	httpHandler := transport.NewHTTPHandler(
		userSvc, registerUC, locationUC, drvRepo,
		listUC, getUC, acceptUC, startUC, completeUC, cancelUC,
		log,
	)

	mux := http.NewServeMux()
	authMiddleware := guard.JWT(jwtService, log)
	driverOnly := guard.RequireRole(model.RoleDriver, log)
	httpHandler.RegisterRoutes(mux, authMiddleware, driverOnly)
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Services.DriverServicePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           observability.HTTPMetrics(mux),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "driver_service_stopping", Message: "shutting down driver service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "driver_service_stopped", Message: "driver service stopped"})
}
