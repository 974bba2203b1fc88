// main is the entry point of the User Service: an in-memory users API with
// uploads, a background welcome task and a concurrency demo.
//
// RUNNING THE SERVER:
//
//	go run ./cmd/user-service --config=config/local.yaml
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/resource-api/internal/config"
	"github.com/aanand-mishra/resource-api/internal/http/handlers/user"
	"github.com/aanand-mishra/resource-api/internal/http/middleware"
	"github.com/aanand-mishra/resource-api/internal/http/server"
	"github.com/aanand-mishra/resource-api/internal/logger"
	"github.com/aanand-mishra/resource-api/internal/storage/memory"
	"github.com/aanand-mishra/resource-api/internal/upload"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
	"github.com/aanand-mishra/resource-api/internal/worker"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)
	svc := cfg.UserService

	log.Info("starting user-service",
		slog.String("env", cfg.Env),
		slog.String("upload_dir", svc.UploadDir),
	)

	v, err := validate.New(cfg.StudentService.PhoneCountryCode)
	if err != nil {
		log.Error("failed to build validator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The store lives exactly as long as the process.
	store := memory.NewUserStore()
	pool := worker.New(log, svc.Workers, svc.QueueSize)

	router := http.NewServeMux()
	user.Register(router, user.Deps{
		Store:        store,
		Validator:    v,
		Tasks:        pool,
		Saver:        upload.NewSaver(svc.UploadDir),
		WelcomeDelay: svc.WelcomeDelay,
		TimeUnit:     svc.TimeUnit,
	})
	router.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Wrap(router, middleware.Options{
		Service:        "user",
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		OnPanic: func(w http.ResponseWriter) {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(response.InternalMessage))
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := server.Run(ctx, log, server.New(svc.HTTPServer, handler), svc.HTTPServer)

	// Queued welcome tasks get the same grace period as in-flight requests.
	drainCtx, cancel := context.WithTimeout(context.Background(), svc.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := pool.Shutdown(drainCtx); err != nil {
		log.Warn("background tasks cancelled", slog.String("error", err.Error()))
	}

	if runErr != nil {
		log.Error("server encountered an error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
}
