package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/medehssane/tewsilty/internal/shared/config"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	adminboot "github.com/medehssane/tewsilty/internal/admin/bootstrap"
	driverboot "github.com/medehssane/tewsilty/internal/driver/bootstrap"
	orderboot "github.com/medehssane/tewsilty/internal/order/bootstrap"
)

// newServiceLogger honors LOG_LEVEL and LOG_DIR; with LOG_DIR set each
// service also duplicates its output into its own log files.
func newServiceLogger(service string) *logger.Logger {
	dir := os.Getenv("LOG_DIR")
	if dir != "" {
		dir = filepath.Join(dir, service)
	}
	log, err := logger.NewLoggerWithOptions(service, os.Getenv("LOG_LEVEL"), dir)
	if err != nil {
		stdlog.Fatalln("failed to create logger:", err)
	}
	return log
}

func main() {
	svc := flag.String("service", "order", "order|driver|admin|all")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	switch *svc {
	case "order":
		log := newServiceLogger("order-service")
		defer log.Close()
		orderboot.Run(ctx, cfg, log)

	case "driver":
		log := newServiceLogger("driver-service")
		defer log.Close()
		driverboot.Run(ctx, cfg, log)

	case "admin":
		log := newServiceLogger("admin-service")
		defer log.Close()
		adminboot.Run(ctx, cfg, log)

	case "all":
		orderLog := newServiceLogger("order-service")
		driverLog := newServiceLogger("driver-service")
		adminLog := newServiceLogger("admin-service")

		go orderboot.Run(ctx, cfg, orderLog)
		go driverboot.Run(ctx, cfg, driverLog)
		go adminboot.Run(ctx, cfg, adminLog)

	default:
		log := newServiceLogger("bootstrap")
		log.Fatal(logger.Entry{Action: "invalid_service", Message: *svc})
	}

	<-ctx.Done()
}
