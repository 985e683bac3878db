package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"triversa/internal/catalog"
	"triversa/internal/checkout"
	"triversa/internal/db"
	"triversa/internal/mailer"
	"triversa/internal/paystack"
	"triversa/internal/ratelimiter"
	"triversa/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultEnabled := false

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	// Configure the encoder to be a console encoder with color
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	// Create a console encoder with the custom configuration
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	// Create a log level (you can set your own level here)
	level := zapcore.InfoLevel

	// Use zapcore.NewCore to write logs to standard output (stdout) with color
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	// Create and return a new logger instance
	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "0.3.0"

//	@title			Triversa API
//	@description	Checkout API for mobile data bundles and exam result vouchers.

//	@contact.name	API Support
//	@contact.email	support@triversa.com

//	@BasePath	/v1

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}
	// Retrieve and convert maxConns
	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		mail: mailConfig{
			enabled:   os.Getenv("MAIL_ENABLED") == "true",
			fromEmail: os.Getenv("MAIL_FROM_EMAIL"),
			mailtrap: mailTrapConfig{
				apiKey: os.Getenv("MAILTRAP_API_KEY"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		gateway: gatewayConfig{
			secretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
			publicKey: os.Getenv("PAYSTACK_PUBLIC_KEY"),
			baseURL:   os.Getenv("PAYSTACK_BASE_URL"),
		},
		checkout: checkoutConfig{
			tokenSecret:       os.Getenv("CHECKOUT_TOKEN_SECRET"),
			tokenExp:          time.Minute * 30,
			orderNumberSecret: os.Getenv("ORDER_NUMBER_SECRET"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(
		cfg.db.addr,
		cfg.db.maxConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}

	defer pool.Close()
	logger.Info("database connection pool established")

	//storage
	orderNumbers := store.NewOrderNumberGenerator(cfg.checkout.orderNumberSecret)
	storage := store.NewStorage(pool, orderNumbers)

	// Catalog: database-backed in production, seeded in-memory otherwise
	// so the funnel works without a packages table.
	var cat catalog.Resolver
	if cfg.env == "production" {
		cat = catalog.NewRepository(pool)
	} else {
		cat = catalog.NewMemoryCatalog(catalog.SeedPackages())
	}

	// Payment gateway client; the readiness probe runs in the
	// background, the funnel stays blocked until it reports ready.
	gateway := paystack.NewClient(cfg.gateway.secretKey, cfg.gateway.publicKey, cfg.gateway.baseURL)
	gateway.Readiness().Start(context.Background())

	// Receipts are optional; the funnel runs without SMTP credentials.
	var mailClient mailer.Client
	if cfg.mail.enabled {
		mailtrap, err := mailer.NewMailTrapClient(cfg.mail.mailtrap.apiKey, cfg.mail.fromEmail)
		if err != nil {
			logger.Fatal(err)
		}
		mailClient = mailtrap
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	flow := checkout.NewFlow(cat, storage, gateway, gateway.Readiness(), logger)

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       storage,
		catalog:     cat,
		flow:        flow,
		recipient:   &checkout.RecipientStep{Catalog: cat},
		tokens:      checkout.NewTokenCarrier(cfg.checkout.tokenSecret, cfg.checkout.tokenExp),
		gateway:     gateway,
		mailer:      mailClient,
		rateLimiter: rateLimiter,
	}

	// Receipt goes out on whichever entry point settles the success,
	// callback or status query.
	flow.OnSucceeded = app.sendReceipt

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		stat := pool.Stat()
		return map[string]any{
			"total_conns":    stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"acquired_conns": stat.AcquiredConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("gateway_state", expvar.Func(func() any {
		return string(gateway.Readiness().State())
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
