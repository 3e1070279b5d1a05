package main

import (
	"go.uber.org/zap"

	"staffportal/config"
	"staffportal/internal/api"
	"staffportal/internal/db"
	"staffportal/internal/mq"
	"staffportal/internal/provider"
	"staffportal/internal/redis"
	"staffportal/internal/repository"
	"staffportal/internal/service"
	"staffportal/pkg/logger"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init delivery providers; missing credentials refuse to start
	smsProvider, err := provider.NewTwilioSMS(cfg.Twilio)
	if err != nil {
		log.Fatal("Twilio initialization failed", zap.Error(err))
	}
	emailProvider, err := provider.NewResendEmail(cfg.Resend)
	if err != nil {
		log.Fatal("Resend initialization failed", zap.Error(err))
	}

	// 4. Init Redis cache
	cache := redis.NewClient(cfg.Redis)

	// 5. Init event producer (optional)
	var events service.EventPublisher
	if cfg.MQ.URL != "" {
		producer, err := mq.NewProducer(cfg.MQ.URL)
		if err != nil {
			log.Fatal("MQ initialization failed", zap.Error(err))
		}
		defer producer.Close()
		events = producer
	} else {
		log.Info("MQ URL not configured, dispatch events disabled")
	}

	// 6. Init repositories
	userRepo := repository.NewUserRepository(dbConn)
	sessionRepo := repository.NewSessionRepository(dbConn)
	memberRepo := repository.NewMemberRepository(dbConn)
	smsLogRepo := repository.NewSmsLogRepository(dbConn)
	emailLogRepo := repository.NewEmailLogRepository(dbConn)
	webMessageRepo := repository.NewWebMessageRepository(dbConn)

	// 7. Init services
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.JWT.Secret, log)
	memberService := service.NewMemberService(memberRepo, cache, log)
	dispatchService := service.NewDispatchService(
		smsProvider, emailProvider,
		smsLogRepo, emailLogRepo, webMessageRepo,
		sessionRepo, events, log,
	)
	logService := service.NewLogService(smsLogRepo, emailLogRepo, webMessageRepo, memberRepo)

	// 8. Init handlers
	authHandler := api.NewAuthHandler(authService)
	memberHandler := api.NewMemberHandler(memberService)
	messageHandler := api.NewMessageHandler(dispatchService, logService)
	logHandler := api.NewLogHandler(logService)

	// 9. Init router
	router := api.NewRouter(authHandler, memberHandler, messageHandler, logHandler, authService)

	// 10. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
