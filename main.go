package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/auth"
	"staybook/booking"
	"staybook/config"
	"staybook/db"
	"staybook/logging"
	"staybook/middleware"
	"staybook/mq"
	"staybook/notify"
	"staybook/ratelim"
	"staybook/rdx"
	"staybook/routes"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init("staybook", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	defer client.Disconnect(context.Background())

	bookingStore := booking.NewMongoStore(database.Collection(db.BookingsCollection))
	userStore := auth.NewMongoUserStore(database.Collection(db.UsersCollection))
	if err := bookingStore.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("booking indexes")
	}
	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user indexes")
	}

	var redisConn *redis.Client
	if cfg.RedisAddr != "" {
		redisConn, err = rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer redisConn.Close()
	}

	// auth
	var denylist auth.Denylist = auth.NewMemoryDenylist()
	if redisConn != nil {
		denylist = auth.NewRedisDenylist(redisConn)
	}
	authSvc := auth.NewService(userStore, auth.NewTokens(cfg.Secret, cfg.TokenTTL), denylist)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	// notifications: request -> dispatcher -> (redis -> worker ->) mailer
	var deliver notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPHost != "" && cfg.NotifyEmail != "" {
		deliver = notify.NewMailer(notify.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
			To:       cfg.NotifyEmail,
		}, cfg.Location)
	}
	dispatched := deliver
	if redisConn != nil {
		dispatched = mq.NewPublisher(redisConn)
		go mq.NewWorker(redisConn, deliver).Run(ctx)
	}
	dispatcher := notify.NewDispatcher(dispatched, 30*time.Second)

	// bookings
	hub := booking.NewHub(cfg.AllowedOrigins)
	svc := booking.NewService(
		booking.NewValidator(cfg.Location, time.Now),
		booking.NewPricer(cfg.PriceTable, cfg.DefaultRate, cfg.SurchargeRate),
		bookingStore,
		dispatcher, hub,
	)

	var invoiceFont []byte
	if cfg.InvoiceFont != "" {
		if invoiceFont, err = os.ReadFile(cfg.InvoiceFont); err != nil {
			log.Fatal().Err(err).Msg("invoice font")
		}
	}

	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.Run(ctx, time.Minute)

	router := routes.New(routes.Deps{
		Bookings: booking.NewHandler(svc, hub, booking.NewInvoicer(cfg.Location, invoiceFont)),
		Auth:     auth.NewHandler(authSvc),
		Gate:     middleware.NewGate(authSvc),
		Limiter:  rateLimiter,
	})

	// apply middleware: logging → security headers → CORS → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)
	handler := logging.Middleware(middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(hub.Close)

	go func() {
		log.Info().Str("addr", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received; shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notifications still in flight")
	}
	log.Info().Msg("server stopped cleanly")
}
