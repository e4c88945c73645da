package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authsvc "stuverse/internal/app/services/auth"
	buzzsvc "stuverse/internal/app/services/buzz"
	chatsvc "stuverse/internal/app/services/chat"
	lostsvc "stuverse/internal/app/services/lostfound"
	marketsvc "stuverse/internal/app/services/market"
	notifysvc "stuverse/internal/app/services/notify"
	reviewsvc "stuverse/internal/app/services/reviews"
	ridesvc "stuverse/internal/app/services/rides"
	"stuverse/internal/infra/broker/kafka"
	"stuverse/internal/infra/config"
	mongodb "stuverse/internal/infra/db/mongo"
	ginserver "stuverse/internal/infra/http/gin"
	"stuverse/internal/infra/obs"
	"stuverse/internal/infra/outbox"
	"stuverse/internal/infra/security"
	"stuverse/internal/infra/storage/s3"
	"stuverse/internal/relay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	if err := db.Ping(pingCtx); err != nil {
		logger.Error("mongo ping failed", "error", err)
		os.Exit(1)
	}
	if err := db.EnsureIndexes(pingCtx); err != nil {
		logger.Error("mongo index setup failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mongo connected", "database", cfg.MongoDB)

	users := mongodb.NewUserRepository(db.DB)
	messages := mongodb.NewMessageRepository(db.DB)
	notifications := mongodb.NewNotificationRepository(db.DB)
	listings := mongodb.NewListingRepository(db.DB)
	lostItems := mongodb.NewLostItemRepository(db.DB)
	rides := mongodb.NewRideRepository(db.DB)
	posts := mongodb.NewBuzzRepository(db.DB)
	reviews := mongodb.NewReviewRepository(db.DB)
	outboxStore := outbox.NewStore(db.DB)

	tokens := security.TokenCodec{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}
	hasher := security.BcryptHasher{}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("s3 uploader unavailable, image uploads disabled", "error", err)
		} else {
			uploader = client
		}
	}

	authService := &authsvc.Service{Users: users, Passwords: hasher, Tokens: tokens, Logger: logger}
	notifyService := &notifysvc.Service{Notifications: notifications, Users: users, Logger: logger}
	chatService := &chatsvc.Service{Messages: messages, Users: users, Notifier: notifyService, Logger: logger}
	marketService := &marketsvc.Service{Listings: listings, Users: users, Outbox: outboxStore, Logger: logger}
	lostService := &lostsvc.Service{Items: lostItems, Users: users, Outbox: outboxStore, Logger: logger}
	rideService := &ridesvc.Service{Rides: rides, Users: users, Notifier: notifyService, Outbox: outboxStore, Logger: logger}
	buzzService := &buzzsvc.Service{Posts: posts, Logger: logger}
	reviewService := &reviewsvc.Service{Reviews: reviews, Listings: listings, Users: users, Logger: logger}

	hub := relay.NewHub(logger)
	relayHandler := relay.Handler{Hub: hub, Tokens: tokens, AllowedOrigins: cfg.CORSOrigins, Logger: logger}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &outbox.Worker{
			Store:       outboxStore,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka brokers not configured, event publishing disabled")
	}

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: func() error {
			readyCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.Ping(readyCtx)
		},
	}, ginserver.Handlers{
		Auth:          ginserver.AuthHandler{Service: authService, Uploader: uploader, CookieTTL: cfg.JWTTTL, Logger: logger},
		Market:        ginserver.MarketHandler{Service: marketService, Uploader: uploader, Logger: logger},
		Reviews:       ginserver.ReviewHandler{Service: reviewService, Logger: logger},
		LostFound:     ginserver.LostFoundHandler{Service: lostService, Uploader: uploader, Logger: logger},
		Rides:         ginserver.RideHandler{Service: rideService, Logger: logger},
		Buzz:          ginserver.BuzzHandler{Service: buzzService, Logger: logger},
		Chat:          ginserver.ChatHandler{Service: chatService, Logger: logger},
		Notifications: ginserver.NotificationHandler{Service: notifyService, Logger: logger},
		Relay:         relayHandler.Serve,
		AuthMW:        authMW.Handle,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}
