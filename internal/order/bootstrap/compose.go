// Compose root for order-service, the customer surface. Wires Postgres,
// RabbitMQ, the WebSocket hub and the customer HTTP API together.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/medehssane/tewsilty/internal/order/adapters/in/in_amqp"
	"github.com/medehssane/tewsilty/internal/order/adapters/in/transport"
	"github.com/medehssane/tewsilty/internal/order/adapters/out/out_amqp"
	"github.com/medehssane/tewsilty/internal/order/adapters/out/out_ws"
	"github.com/medehssane/tewsilty/internal/order/adapters/out/repo"
	"github.com/medehssane/tewsilty/internal/order/application/usecase"
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
	log.Info(logger.Entry{Action: "order_service_starting", Message: "initializing order service"})

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

	jwtService := auth.NewJWTService(cfg.JWT)

	// websocket hub for customers
	hub := ws.NewHub(jwtService.ExtractUserID, log)
	go hub.Run(ctx)

	// repositories
	orderRepo := repo.NewOrderPgRepository(dbPool, log)
	userRepo := user.NewPgRepository(dbPool, log)

	// outbound adapters
	eventPublisher := out_amqp.NewEventPublisher(mqConn, log)
	notifier := out_ws.NewOrderNotifier(hub)

	// services and use cases
	userSvc := user.NewService(userRepo, jwtService, log)
	createUC := usecase.NewCreateOrderService(orderRepo, eventPublisher, log)
	listUC := usecase.NewListCustomerOrdersService(orderRepo, log)
	getUC := usecase.NewGetOrderService(orderRepo, log)
	cancelUC := usecase.NewCancelOrderByCustomerService(orderRepo, eventPublisher, log)

	// consumers: lifecycle events and driver positions for this service's
	// connected customers
	eventsConsumer := in_amqp.NewOrderEventsConsumer(mqConn, notifier, log)
	if err := eventsConsumer.Start(ctx); err != nil {
		log.Error(logger.Entry{
			Action:  "order_events_consumer_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	locationConsumer := in_amqp.NewLocationConsumer(mqConn, orderRepo, notifier, log)
	if err := locationConsumer.Start(ctx); err != nil {
		log.Error(logger.Entry{
			Action:  "location_consumer_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// http
	httpHandler := transport.NewHTTPHandler(userSvc, createUC, listUC, getUC, cancelUC, log)

	mux := http.NewServeMux()
	authMiddleware := guard.JWT(jwtService, log)
	httpHandler.RegisterRoutes(mux, authMiddleware)
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Services.OrderServicePort)
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
	log.Info(logger.Entry{Action: "order_service_stopping", Message: "shutting down order service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "order_service_stopped", Message: "order service stopped"})
}
