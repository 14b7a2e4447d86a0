package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/spf13/pflag"

	"github.com/xavierca1/calldesk/internal/config"
	"github.com/xavierca1/calldesk/internal/infra/database"
	"github.com/xavierca1/calldesk/internal/infra/http/handlers"
	metrics "github.com/xavierca1/calldesk/internal/infra/http/middleware"
	"github.com/xavierca1/calldesk/internal/infra/integration/gemini"
	"github.com/xavierca1/calldesk/internal/infra/mail"
	"github.com/xavierca1/calldesk/internal/infra/queue"
	"github.com/xavierca1/calldesk/internal/infra/security"
	"github.com/xavierca1/calldesk/internal/infra/worker"
	"github.com/xavierca1/calldesk/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flags := pflag.NewFlagSet("calldesk", pflag.ExitOnError)
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flags.StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "SQLite file path or postgres:// URL")
	flags.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "RabbitMQ URL for lead events (empty disables)")
	flags.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	conn, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("🗄️ Store ready (%s)", conn.Driver)

	userRepo := database.NewUserRepository(conn)
	sessionRepo := database.NewSessionRepository(conn)
	leadRepo := database.NewLeadRepository(conn)

	recorder := metrics.PrometheusRecorder{}
	engineOpts := []usecase.EngineOption{usecase.WithMetrics(recorder)}

	// 2. Broker (optional)
	var amqpConn *amqp091.Connection
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, lead events disabled: %v", err)
		} else {
			defer rabbitMQ.Close()
			amqpConn = rabbitMQ.Conn
			engineOpts = append(engineOpts, usecase.WithEventPublisher(queue.NewProducer(rabbitMQ.Ch)))

			if cfg.MailConfigured() {
				sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
				go func() {
					w := queue.NewWorker(rabbitMQ.Ch, sender, cfg.Company)
					if err := w.Start(ctx, queue.QueueName); err != nil {
						log.Printf("❌ Worker stopped: %v", err)
					}
				}()
			}
		}
	}

	// 3. Use cases
	var generator usecase.ScriptGenerator
	if cfg.GeminiAPIKey != "" {
		generator = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Company)
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, call scripts disabled")
	}

	authUC := usecase.NewAuthUseCase(userRepo, sessionRepo, security.NewBcryptHasher(0))
	importUC := usecase.NewImportLeadsUseCase(usecase.DefaultColumnTable(), recorder)
	scriptUC := usecase.NewCallScriptUseCase(generator, cfg.ScriptTimeout, recorder)
	desk := usecase.NewDesk(sessionRepo, leadRepo, engineOpts...)

	go worker.NewLeadGaugeWorker(leadRepo, metrics.SetLeadsByStatus, cfg.GaugeInterval).Start(ctx)

	// 4. Handlers
	authHandler := handlers.NewAuthHandler(authUC, handlers.NewRateLimiter(10, time.Minute)) // 10 login attempts/min per IP
	leadHandler := handlers.NewLeadHandler(desk, importUC, cfg.Company, cfg.Location)
	scriptHandler := handlers.NewScriptHandler(desk, scriptUC)
	healthHandler := handlers.NewHealthHandler(conn, amqpConn, generator != nil)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})
	r.Get("/session", authHandler.Session)
	r.Get("/stats", leadHandler.Stats)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", leadHandler.List)
		r.Delete("/", leadHandler.Clear)
		r.Post("/import", leadHandler.ImportFile)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/book", leadHandler.Book)
			r.Post("/no-answer", leadHandler.NoAnswer)
			r.Post("/cancel", leadHandler.Cancel)
			r.Post("/reschedule", leadHandler.Reschedule)
			r.Get("/script", scriptHandler.Generate)
		})
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🔥 Calldesk listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
