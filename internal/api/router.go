package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	memberHandler *MemberHandler,
	messageHandler *MessageHandler,
	logHandler *LogHandler,
	sessions SessionResolver,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Public
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/session", authHandler.Session)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/messages", messageHandler.ListPublished)

	// Protected
	auth := api.Group("/")
	auth.Use(AuthMiddleware(sessions))
	{
		auth.POST("/messages", messageHandler.Send)
		auth.GET("/members", memberHandler.List)
		auth.GET("/members/search", memberHandler.Search)
		auth.GET("/logs/sms", logHandler.ListSMS)
		auth.GET("/logs/email", logHandler.ListEmail)
		auth.GET("/logs/webapi", logHandler.ListWeb)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
