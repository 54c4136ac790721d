package main

import (
	"context"
	"log"

	api "pushgate-backend/cmd/api"
	authdomain "pushgate-backend/internal/auth/domain"
	authRepo "pushgate-backend/internal/auth/repository"
	authUsecase "pushgate-backend/internal/auth/usecase"
	pushDelivery "pushgate-backend/internal/push/delivery"
	pushdomain "pushgate-backend/internal/push/domain"
	"pushgate-backend/internal/push/ingest"
	pushRepo "pushgate-backend/internal/push/repository"
	"pushgate-backend/internal/push/topics"
	pushUsecase "pushgate-backend/internal/push/usecase"
	"pushgate-backend/pkg/config"
	"pushgate-backend/pkg/database"
	"pushgate-backend/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	defaults, err := config.LoadDefaults(cfg.PushDefaultsFile)
	if err != nil {
		log.Fatal("Failed to load push defaults:", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.Session{}, &pushdomain.AppToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	sessionRepo := authRepo.NewSessionRepository(db)
	appTokenRepo := pushRepo.NewAppTokenRepository(db)

	// Initialize FCM transport
	if cfg.PushEnabled && cfg.FirebaseCredentials == "" {
		log.Fatal("PUSH_ENABLED is set but FIREBASE_CREDENTIALS is missing")
	}
	fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize FCM client:", err)
	}

	// Token registry with lifecycle hooks; the topic manager keeps FCM
	// topic membership in step with registry mutations.
	hooks := pushUsecase.NewHooks()
	registry := pushUsecase.NewRegistry(appTokenRepo, sessionRepo, hooks)
	topicManager := topics.NewManager(fcmClient)
	topicManager.Register(hooks)

	// Delivery engine
	sender := pushUsecase.NewSender(fcmClient, registry, defaults)

	// Pub/Sub ingestion of queued send requests (optional)
	if cfg.GoogleProjectID != "" {
		ingestService, err := ingest.NewService(cfg.GoogleProjectID, cfg.PubSubTopic, sender, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[PubSub] Failed to initialize ingestion service: %v", err)
		} else {
			go ingestService.Start(context.Background())
		}
	} else {
		log.Printf("[PubSub] GOOGLE_PROJECT_ID not configured, ingestion disabled")
	}

	// Initialize use cases and HTTP surface
	authUc := authUsecase.NewAuthUsecase(userRepo, sessionRepo, cfg)
	pushHandler := pushDelivery.NewPushHandler(registry, sender)
	handler := api.NewHandler(authUc, pushHandler, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
