// Compose root for admin-service: first-admin bootstrap, the dashboard
// reads and driver verification.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/medehssane/tewsilty/internal/admin/adapters/in/transport"
	"github.com/medehssane/tewsilty/internal/admin/adapters/out/out_amqp"
	adminrepo "github.com/medehssane/tewsilty/internal/admin/adapters/out/repo"
	adminusecase "github.com/medehssane/tewsilty/internal/admin/application/usecase"
	driverrepo "github.com/medehssane/tewsilty/internal/driver/adapters/out/repo"
	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/config"
	"github.com/medehssane/tewsilty/internal/shared/db"
	"github.com/medehssane/tewsilty/internal/shared/guard"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
	"github.com/medehssane/tewsilty/internal/shared/observability"
	"github.com/medehssane/tewsilty/internal/shared/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// roleCacheTTL bounds how long a revoked admin can keep acting as one.
const roleCacheTTL = time.Minute

func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "admin_service_starting", Message: "initializing admin service"})

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

	// repositories
	userRepo := user.NewPgRepository(dbPool, log)
	drvRepo := driverrepo.NewDriverPgRepository(dbPool, log)
	admRepo := adminrepo.NewAdminPgRepository(dbPool, log)

	// the oracle re-resolves roles from the users table so a stale token
	// cannot keep admin access after a role change
	oracle := auth.NewRoleOracle(userRepo.RoleOf, roleCacheTTL)

	// outbound adapters
	verificationPublisher := out_amqp.NewVerificationPublisher(mqConn, log)

	// services and use cases
	userSvc := user.NewService(userRepo, jwtService, log)
	listUC := adminusecase.NewListDriversService(admRepo, log)
	verifyUC := adminusecase.NewVerifyDriverService(drvRepo, verificationPublisher, log)

	// http
	httpHandler := transport.NewHTTPHandler(userSvc, userRepo, oracle, listUC, verifyUC, log)

	mux := http.NewServeMux()
	authMiddleware := guard.JWT(jwtService, log)
	adminGuard := guard.Admin(jwtService, oracle, log)
	httpHandler.RegisterRoutes(mux, authMiddleware, adminGuard)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Services.AdminServicePort)
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
	log.Info(logger.Entry{Action: "admin_service_stopping", Message: "shutting down admin service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "admin_service_stopped", Message: "admin service stopped"})
}
