package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/turndownhq/turndown/internal/infrastructure/configs"
	"github.com/turndownhq/turndown/internal/infrastructure/logging"
	"github.com/turndownhq/turndown/internal/infrastructure/metrics"
	"github.com/turndownhq/turndown/internal/infrastructure/ratelimiter"
	healthHandler "github.com/turndownhq/turndown/internal/presentation/handler/health"
	propertiesHandler "github.com/turndownhq/turndown/internal/presentation/handler/properties"
	roomsHandler "github.com/turndownhq/turndown/internal/presentation/handler/rooms"
)

type Application struct {
	config            configs.Config
	propertiesHandler propertiesHandler.Handler
	roomsHandler      roomsHandler.Handler
	healthHandler     healthHandler.Handler
	logger            logging.Logger
	ratelimiter       ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	propertiesHandler propertiesHandler.Handler,
	roomsHandler roomsHandler.Handler,
	healthHandler healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:            config,
		propertiesHandler: propertiesHandler,
		roomsHandler:      roomsHandler,
		healthHandler:     healthHandler,
		logger:            logger,
		ratelimiter:       ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Post("/", app.propertiesHandler.CreatePropertyHandler)
			r.Get("/{code}", app.propertiesHandler.GetPropertyHandler)
			r.Post("/{code}/employees", app.propertiesHandler.AddEmployeeHandler)
			r.Get("/{code}/subscribe", app.propertiesHandler.SubscribePropertyHandler)

			r.Route("/{code}/dates/{date}/rooms", func(r chi.Router) {
				r.Post("/", app.roomsHandler.CreateRoomHandler)
				r.Get("/", app.roomsHandler.ListRoomsHandler)
				r.Get("/subscribe", app.roomsHandler.SubscribeRoomsHandler)
				r.Patch("/{number}", app.roomsHandler.UpdateRoomHandler)
			})
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      otelhttp.NewHandler(mux, "turndown-api"),
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Startup, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Startup, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
