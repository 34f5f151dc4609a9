package routes

import (
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires all endpoints. Everything under the authenticated
// group requires a Bearer token.
func SetupRouter(
	auth *controllers.AuthController,
	chat *controllers.ChatController,
	share *controllers.ShareController,
	tokens *services.TokenService,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)

	authed := r.Group("/", middlewares.AuthRequired(tokens))

	// Send a message (creates a chat when chat_id is omitted)
	authed.POST("/chat", chat.HandleChat)

	// Chat CRUD
	authed.POST("/chats", chat.CreateChat)
	authed.GET("/chats", chat.ListChats)
	authed.GET("/chats/:id", chat.GetChat)

	// Message sharing
	authed.POST("/share", share.ShareMessage)
	authed.GET("/inbox", share.GetInbox)

	return r
}
