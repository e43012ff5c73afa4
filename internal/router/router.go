package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/campustransit/transit-api/internal/handler"
	"github.com/campustransit/transit-api/internal/middleware"
	"github.com/campustransit/transit-api/internal/models"
	"github.com/campustransit/transit-api/internal/service"
	"github.com/campustransit/transit-api/pkg/config"
	"github.com/campustransit/transit-api/pkg/logger"
	corsmiddleware "github.com/campustransit/transit-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campustransit/transit-api/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler mounted by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Buses     *handler.BusHandler
	Routes    *handler.RouteHandler
	Schedules *handler.ScheduleHandler
	Students  *handler.StudentHandler
	Payments  *handler.PaymentHandler
	Donors    *handler.BloodDonorHandler
	Tracking  *handler.LocationHandler
	Dashboard *handler.DashboardHandler
	Public    *handler.PublicHandler
	Metrics   *handler.MetricsHandler
}

// New assembles the gin engine with middleware and all route groups.
func New(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(cfg.APIPrefix)

	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/register", middleware.OptionalJWT(auth), h.Auth.Register)

	public := v1.Group("/public")
	public.GET("/schedules", h.Public.Schedules)
	public.GET("/routes/:id/schedules", h.Public.RouteSchedules)
	public.GET("/blood-donors", h.Public.Donors)
	public.GET("/blood-donors/search", h.Public.SearchDonors)
	public.GET("/students/:id/payment-status", h.Public.PaymentStatus)
	public.GET("/drivers/:id", h.Public.Driver)

	authed := v1.Group("", middleware.JWT(auth))
	admin := middleware.RequireRoles(models.RoleAdmin)

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)
	authed.GET("/auth/roles", admin, h.Auth.Roles)

	buses := authed.Group("/buses")
	buses.GET("", h.Buses.List)
	buses.GET("/:id", h.Buses.Get)
	buses.POST("", admin, h.Buses.Create)
	buses.PUT("/:id", admin, h.Buses.Update)
	buses.PATCH("/:id/status", admin, h.Buses.UpdateStatus)
	buses.DELETE("/:id", admin, h.Buses.Delete)

	routes := authed.Group("/routes")
	routes.GET("", h.Routes.List)
	routes.GET("/:id", h.Routes.Get)
	routes.POST("", admin, h.Routes.Create)
	routes.PUT("/:id", admin, h.Routes.Update)
	routes.PATCH("/:id/active", admin, h.Routes.SetActive)
	routes.DELETE("/:id", admin, h.Routes.Delete)

	authed.GET("/locations", h.Routes.ListLocations)
	authed.POST("/locations", admin, h.Routes.CreateLocation)

	schedules := authed.Group("/schedules")
	schedules.GET("", h.Schedules.List)
	schedules.GET("/:id", h.Schedules.Get)
	schedules.POST("", admin, h.Schedules.Create)
	schedules.PUT("/:id", admin, h.Schedules.Update)
	schedules.PATCH("/:id/status", admin, h.Schedules.UpdateStatus)
	schedules.DELETE("/:id", admin, h.Schedules.Delete)

	students := authed.Group("/students")
	students.GET("", admin, h.Students.List)
	students.GET("/recent", admin, h.Students.Recent)
	students.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Students.Get)
	students.GET("/:id/payment-status", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Students.PaymentStatus)
	students.POST("", admin, h.Students.Create)
	students.PUT("/:id", admin, h.Students.Update)
	students.PATCH("/:id/status", admin, h.Students.UpdateStatus)
	students.DELETE("/:id", admin, h.Students.Delete)

	payments := authed.Group("/payments", admin)
	payments.GET("", h.Payments.List)
	payments.GET("/export", h.Payments.Export)
	payments.GET("/:id", h.Payments.Get)
	payments.POST("", h.Payments.Create)
	payments.PUT("/:id", h.Payments.Update)
	payments.PATCH("/:id/status", h.Payments.UpdateStatus)
	payments.DELETE("/:id", h.Payments.Delete)

	donors := authed.Group("/blood-donors")
	donors.GET("", h.Donors.List)
	donors.GET("/search", h.Donors.Search)
	donors.GET("/:id", h.Donors.Get)
	donors.POST("", admin, h.Donors.Create)
	donors.PUT("/:id", admin, h.Donors.Update)
	donors.DELETE("/:id", admin, h.Donors.Delete)

	tracking := authed.Group("/tracking")
	tracking.POST("/pings", middleware.RequireRoles(models.RoleAdmin, models.RoleDriver), h.Tracking.Record)
	tracking.GET("/active", h.Tracking.Active)
	tracking.GET("/analytics", admin, h.Tracking.Analytics)
	tracking.GET("/buses/:busId/latest", h.Tracking.Latest)
	tracking.GET("/buses/:busId/history", admin, h.Tracking.History)

	dashboard := authed.Group("/dashboard", admin)
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/revenue", h.Dashboard.Revenue)
	dashboard.GET("/maintenance", h.Dashboard.Maintenance)

	return r
}
