package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triversa/docs" //this is required to generate swagger docs
	"triversa/internal/catalog"
	"triversa/internal/checkout"
	"triversa/internal/mailer"
	"triversa/internal/paystack"
	"triversa/internal/ratelimiter"
	"triversa/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config      config
	store       store.Storage
	catalog     catalog.Resolver
	flow        *checkout.Flow
	recipient   *checkout.RecipientStep
	tokens      *checkout.TokenCarrier
	gateway     *paystack.Client
	logger      *zap.SugaredLogger
	mailer      mailer.Client
	rateLimiter ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	mail        mailConfig
	auth        authConfig
	gateway     gatewayConfig
	checkout    checkoutConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	enabled   bool
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type gatewayConfig struct {
	secretKey string
	publicKey string
	baseURL   string
}

type checkoutConfig struct {
	tokenSecret       string
	tokenExp          time.Duration
	orderNumberSecret string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Request context timeout; further processing stops once it fires.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Get("/services", app.listServicesHandler)
		r.Route("/services/{serviceID}", func(r chi.Router) {
			r.Get("/packages", app.listPackagesHandler)
		})
		r.Get("/packages/{packageID}", app.getPackageHandler)

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/recipient", app.recipientStepHandler)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/initialize", app.initializePaymentHandler)
			r.Post("/callback", app.gatewayCallbackHandler)
			r.Post("/close", app.gatewayCloseHandler)
			r.Get("/verify/{reference}", app.verifyPaymentHandler)
			r.Get("/gateway/status", app.gatewayStatusHandler)
			r.Post("/gateway/retry", app.gatewayRetryHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())
			r.Get("/orders", app.adminListOrdersHandler)
			r.Get("/orders/{orderNumber}", app.adminGetOrderHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
