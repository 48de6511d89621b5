package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/crewscheduler/backend/internal/config"
	"github.com/crewscheduler/backend/internal/http/handlers"
	"github.com/crewscheduler/backend/internal/http/middleware"
	"github.com/crewscheduler/backend/internal/metrics"

	_ "github.com/crewscheduler/backend/docs"
)

func Router(cfg config.Config, h *handlers.Handler, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Session(h.Tokens))
	r.Use(middleware.Logger(h.Logger))
	r.Use(middleware.Metrics(metrics.NewHTTP(reg)))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = splitOrigins(cfg.CORSAllowed)
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	api := r.Group("/api")
	{
		api.GET("/status", h.Status)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)
	}

	session := api.Group("")
	session.Use(middleware.RequireUser())
	{
		session.GET("/me", h.Me)
		session.GET("/dashboard", h.Dashboard)
		session.POST("/chat", h.ChatMessage)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.AdminKey))
	{
		admin.POST("/reload", h.Reload)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
