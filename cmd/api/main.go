package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"paygate/config"
	"paygate/internal/payments"
	"paygate/internal/payments/handlers"
)

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if appConfig.Telemetry.Enabled {
		cleanup := config.InitTracer(appConfig.Telemetry)
		defer cleanup()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	e := echo.New()
	e.JSONSerializer = handlers.SonicSerializer{}
	e.Validator = handlers.NewRequestValidator()

	if appConfig.Telemetry.Enabled {
		e.Use(otelecho.Middleware(appConfig.Telemetry.ServiceName))
	}
	e.Use(middleware.Recover())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := payments.NewMetrics(registry)

	httpClient := &http.Client{
		Timeout:   appConfig.Acquirer.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	acquirer := payments.NewAcquirerClient(httpClient, appConfig.Acquirer.URL)
	store := payments.NewPaymentStore()
	service := payments.NewPaymentService(acquirer, store, logger, metrics)

	var monitor *payments.AcquirerMonitor
	if appConfig.Acquirer.HealthURL != "" {
		monitor = payments.NewAcquirerMonitor(appConfig.Acquirer.HealthURL, appConfig.Acquirer.HealthInterval, httpClient, logger, metrics)
		go monitor.StartMonitoring()
		defer monitor.Stop()
	}

	paymentHandler := handlers.NewPaymentHandler(service)
	getPaymentHandler := handlers.NewGetPaymentHandler(service)
	healthHandler := handlers.NewHealthHandler(monitor)

	e.POST("/payment", paymentHandler.Handle)
	e.GET("/payment/:id", getPaymentHandler.Handle)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/healthz", healthHandler.Handle)

	logger.Info("starting payment gateway", "host", appConfig.Server.Host, "port", appConfig.Server.Port)

	err = e.Start(fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port))
	if err != nil {
		log.Fatal(err)
	}
}
