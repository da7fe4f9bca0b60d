package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobby-server/internal/auth"
	"github.com/vovakirdan/lobby-server/internal/config"
	"github.com/vovakirdan/lobby-server/internal/core"
)

// NewServer builds the HTTP server: REST auth endpoints, the lobby
// listing API, and the WebSocket lobby socket.
func NewServer(coordinator *core.Coordinator, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)

	apiHandlers := NewAPIHandlers(authService, logger)
	gamesHandlers := NewGamesHandlers(coordinator, logger)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(newRateLimiter(cfg.AuthRatePerMinute)))
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)
		api.POST("/guest", apiHandlers.GuestLogin)
	}

	authed := router.Group("/api")
	authed.Use(AuthMiddleware(authService, logger))
	{
		authed.GET("/games", gamesHandlers.ListGames)
	}

	wsHandler := NewWSHandler(coordinator, authService, cfg, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
