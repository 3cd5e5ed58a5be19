package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/baatlink/baatlink/internal/adapters/signal"
	"github.com/baatlink/baatlink/internal/app"
	"github.com/baatlink/baatlink/internal/config"
	"github.com/baatlink/baatlink/internal/domain"
	"github.com/baatlink/baatlink/internal/identity"
)

// SetupRouter wires HTTP routes (REST + WS) with the signaling core.
// - Static files are served from cfg.StaticPath.
// - REST is under /api/*
// - WebSocket upgrade lives at /api/ws/signal
func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	directory *app.Directory,
	users *identity.Controller,
	signalCtl *signal.Controller,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Authorization", "Content-Type", "Origin", "Accept"}
	r.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("BaatLinkSession", store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	userRoutes := api.Group("/v1/users")
	userRoutes.POST("/register", users.Register)
	userRoutes.POST("/login", users.Login)

	// ICE configuration the browser feeds into RTCPeerConnection.
	iceServers := make([]webrtc.ICEServer, 0, len(cfg.ICEServers))
	for _, s := range cfg.ICEServers {
		iceServers = append(iceServers, webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}
	api.GET("/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": directory.List()})
	})
	api.GET("/rooms/:code", func(c *gin.Context) {
		code, err := domain.NormalizeRoomCode(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"code":         code,
			"member_count": directory.Size(code),
		})
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		signalCtl.HandleSignal(ctx, c)
	})

	return r
}
