package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/adapters/signal"
	"github.com/dkeye/Pointing/internal/app"
	"github.com/dkeye/Pointing/internal/app/orch"
	"github.com/dkeye/Pointing/internal/config"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware gives every browser a stable connection
// identity via the "ct" cookie. This is the only identity a
// participant has; a cleared cookie means a new stranger.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.DefaultConfig()
	if len(cfg.CORSDomains) == 0 || (len(cfg.CORSDomains) == 1 && cfg.CORSDomains[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSDomains
	}
	if len(cfg.CORSMethods) > 0 {
		cc.AllowMethods = cfg.CORSMethods
	}
	if len(cfg.CORSHeaders) > 0 {
		cc.AllowHeaders = cfg.CORSHeaders
	}
	cc.AllowCredentials = !cc.AllowAllOrigins
	return cc
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("PointingSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	// One controller for all connections so the rate limiter window is
	// shared across them.
	limiter := signal.NewRoomRateLimiter(cfg.RateLimit, cfg.RateInterval)
	ctrl := signal.NewSignalWSController(o, app.DefaultPolicy(), limiter, cfg.ReadLimit, cfg.PingPeriod)

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms.List())
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("identity", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
