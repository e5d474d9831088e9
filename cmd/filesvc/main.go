// Command filesvc serves a file provider over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rise-and-shine/fileprovider/cfgloader"
	"github.com/rise-and-shine/fileprovider/http/handler"
	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/http/server/middleware"
	"github.com/rise-and-shine/fileprovider/meta"
	"github.com/rise-and-shine/fileprovider/observability/alert"
	"github.com/rise-and-shine/fileprovider/observability/logger"
	"github.com/rise-and-shine/fileprovider/observability/tracing"
)

func main() {
	cfg := cfgloader.MustLoad[Config]()

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err = run(cfg, log); err != nil {
		log.Errorx(err)
		os.Exit(1)
	}
}

func run(cfg Config, log logger.Logger) error {
	meta.SetServiceInfo(cfg.ServiceName, cfg.ServiceVersion)

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing)
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() {
		if err := shutdownTracer(); err != nil {
			log.Warnx(err)
		}
	}()

	alerts, err := alert.NewProvider(cfg.Alert, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() { _ = alerts.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	provider, err := newProvider(cfg, log)
	if err != nil {
		return errx.Wrap(err)
	}
	provider, err = decorate(provider, cfg.Metrics, reg)
	if err != nil {
		return errx.Wrap(err)
	}

	srv := server.NewHTTPServer(cfg.HTTP, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTP.HandleTimeout),
		middleware.NewMetaInjectMW(cfg.ServiceName, cfg.ServiceVersion, provider.Identifier()),
		middleware.NewAlertingMW(log, alerts),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(cfg.HTTP.HideErrorDetails),
	})
	srv.RegisterRouter(handler.NewFiles(provider, handler.WithStreamTimeout(cfg.HTTP.HandleTimeout)).Register)
	if !cfg.Metrics.Disable {
		srv.RegisterRouter(func(r fiber.Router) {
			r.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("http server started", "address", cfg.HTTP.Address(), "provider", provider.Identifier())
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down http server")
		return srv.Stop()
	})

	return errx.Wrap(g.Wait())
}
