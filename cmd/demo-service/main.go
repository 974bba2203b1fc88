// main is the entry point of the minimal Demo Service.
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
	"github.com/aanand-mishra/resource-api/internal/http/handlers/demo"
	"github.com/aanand-mishra/resource-api/internal/http/middleware"
	"github.com/aanand-mishra/resource-api/internal/http/server"
	"github.com/aanand-mishra/resource-api/internal/logger"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)
	svc := cfg.DemoService

	log.Info("starting demo-service", slog.String("env", cfg.Env))

	v, err := validate.New(cfg.StudentService.PhoneCountryCode)
	if err != nil {
		log.Error("failed to build validator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := http.NewServeMux()
	demo.Register(router, v)
	router.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Wrap(router, middleware.Options{
		Service:        "demo",
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
		os.Exit(1)
	}
}
