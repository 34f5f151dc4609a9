package main

import (
	"context"
	"log"

	"backend/config"
	"backend/controllers"
	"backend/routes"
	"backend/services"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	db, err := services.NewDynamoClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create DynamoDB client: %v", err)
	}
	services.EnsureTables(ctx, db)

	var responder services.Responder
	switch cfg.AIProvider {
	case "openai":
		responder = services.NewOpenAIResponder(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		responder = services.NewGeminiResponder(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	log.Printf("Using AI provider: %s", cfg.AIProvider)

	chatStore := services.NewChatStore(db)
	userStore := services.NewUserStore(db)
	shareStore := services.NewShareStore(db, userStore)
	chatService := services.NewChatService(chatStore, responder)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)

	authController := controllers.NewAuthController(userStore, tokens)
	chatController := controllers.NewChatController(chatService, chatStore)
	shareController := controllers.NewShareController(shareStore)

	router := routes.SetupRouter(authController, chatController, shareController, tokens)

	addr := ":" + cfg.Port
	log.Printf("Server starting on port %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
