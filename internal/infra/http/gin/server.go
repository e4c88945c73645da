package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stuverse/internal/infra/config"
	"stuverse/internal/infra/obs"
)

type Handlers struct {
	Auth          AuthHTTP
	Market        MarketHTTP
	Reviews       ReviewHTTP
	LostFound     LostFoundHTTP
	Rides         RideHTTP
	Buzz          BuzzHTTP
	Chat          ChatHTTP
	Notifications NotificationHTTP
	Relay         gin.HandlerFunc
	AuthMW        gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) > 0 {
		// Cookie auth needs credentials, which rules out a wildcard origin.
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowOrigins = []string{"*"}
	}
	router.Use(cors.New(corsCfg))
	if h.AuthMW != nil {
		router.Use(h.AuthMW)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Relay != nil {
		router.GET("/ws", h.Relay)
	}

	api := router.Group("/api")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/profile", h.Auth.Profile)
		api.PUT("/auth/profile", h.Auth.UpdateProfile)
	}
	if h.Market != nil {
		api.GET("/products", h.Market.Browse)
		api.POST("/products", h.Market.Create)
		api.GET("/products/:id", h.Market.Get)
		api.DELETE("/products/:id", h.Market.Delete)
	}
	if h.Reviews != nil {
		api.GET("/products/:id/reviews", h.Reviews.ListByListing)
		api.POST("/products/:id/reviews", h.Reviews.Submit)
	}
	if h.LostFound != nil {
		api.GET("/lost-and-found", h.LostFound.Browse)
		api.POST("/lost-and-found", h.LostFound.Report)
		api.PUT("/lost-and-found/:id/resolve", h.LostFound.Resolve)
	}
	if h.Rides != nil {
		api.GET("/rides", h.Rides.Browse)
		api.POST("/rides", h.Rides.Create)
		api.PUT("/rides/:id/join", h.Rides.Join)
		api.PUT("/rides/:id/leave", h.Rides.Leave)
	}
	if h.Buzz != nil {
		api.GET("/buzz", h.Buzz.Feed)
		api.POST("/buzz", h.Buzz.Post)
		api.PUT("/buzz/:id/like", h.Buzz.ToggleLike)
	}
	if h.Chat != nil {
		api.GET("/chat/conversations", h.Chat.Conversations)
		api.GET("/chat/:userId", h.Chat.History)
		api.POST("/chat", h.Chat.Send)
	}
	if h.Notifications != nil {
		api.GET("/notifications", h.Notifications.List)
		api.PUT("/notifications/read", h.Notifications.MarkAllRead)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
