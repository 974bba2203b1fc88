// main is the entry point of the Student Service.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file or environment)
//  2. Initialise the logger
//  3. Open the configured student storage and create the table
//  4. Register all HTTP routes behind the shared middleware
//  5. Serve until SIGINT/SIGTERM, then shut down gracefully and close storage
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-service --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-service
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/resource-api/internal/config"
	"github.com/aanand-mishra/resource-api/internal/http/handlers/student"
	"github.com/aanand-mishra/resource-api/internal/http/middleware"
	"github.com/aanand-mishra/resource-api/internal/http/server"
	"github.com/aanand-mishra/resource-api/internal/logger"
	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/storage/gormdb"
	"github.com/aanand-mishra/resource-api/internal/storage/sqlite"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)
	svc := cfg.StudentService

	log.Info("starting student-service",
		slog.String("env", cfg.Env),
		slog.String("driver", svc.Driver),
	)

	// The rest of the code only sees the storage.StudentStorage interface,
	// so the driver choice stays in this one place.
	store, err := openStorage(svc)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	v, err := validate.New(svc.PhoneCountryCode)
	if err != nil {
		log.Error("failed to build validator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := http.NewServeMux()
	student.Register(router, store, v)
	router.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Wrap(router, middleware.Options{
		Service:        "student",
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		OnPanic: func(w http.ResponseWriter) {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Detail{Detail: response.InternalMessage})
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, log, server.New(svc.HTTPServer, handler), svc.HTTPServer); err != nil {
		log.Error("server encountered an error", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}
}

func openStorage(svc config.StudentService) (storage.StudentStorage, error) {
	switch svc.Driver {
	case config.DriverSQLite:
		return sqlite.New(svc.StoragePath)
	case config.DriverGormSQLite:
		return gormdb.OpenSQLite(svc.StoragePath)
	case config.DriverPostgres:
		return gormdb.OpenPostgres(svc.DSN)
	default:
		return nil, fmt.Errorf("unknown driver %q", svc.Driver)
	}
}
