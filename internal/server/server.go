package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/attendance"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"
	"github.com/Abduqodir7007/fitness-crm/internal/config"
	"github.com/Abduqodir7007/fitness-crm/internal/dashboard"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"
	"github.com/Abduqodir7007/fitness-crm/internal/plan"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"
	"github.com/Abduqodir7007/fitness-crm/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Account      *account.Handler
	Tenant       *tenant.Handler
	Plan         *plan.Handler
	Subscription *subscription.Handler
	Attendance   *attendance.Handler
	Dashboard    *dashboard.Handler
	DB           Pinger
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers) *Server {
	router := NewRouter(cfg, h)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	router.GET("/health", Health(h.DB))
	router.GET("/metrics", Metrics())

	public := router.Group("/auth")
	{
		public.POST("/login", RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst), h.Account.Login)
		public.POST("/refresh", h.Account.Refresh)
	}
	router.POST("/superadmin/create-super-admin", h.Tenant.BootstrapSuperAdmin)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.Account.GetMe)
	}

	superadmin := router.Group("/superadmin")
	superadmin.Use(authMiddleware, auth.RequireSuperuser())
	{
		superadmin.POST("/create-gym", h.Tenant.CreateGym)
		superadmin.GET("/gyms", h.Tenant.ListGyms)
		superadmin.PATCH("/gym/:id", h.Tenant.ToggleActive)
		superadmin.PATCH("/gym/:id/marketplace", h.Tenant.SetMarketplace)
		superadmin.DELETE("/gyms/:id", h.Tenant.DeleteGym)
		superadmin.GET("/admin-users", h.Tenant.CountAdmins)
	}

	staff := router.Group("/")
	staff.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin, auth.RoleTrainer), auth.RequireTenant())
	{
		staff.POST("/users/attendance", h.Attendance.CheckIn)
		staff.GET("/users/attendance/list", h.Attendance.List)
		staff.GET("/users/:id/attendance", h.Attendance.ListForUser)
		staff.GET("/users/:id/active", h.Subscription.ActiveStatus)
		staff.GET("/trainers", h.Account.ListTrainers)
	}

	admin := router.Group("/")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin), auth.RequireTenant())
	{
		admin.POST("/admin/subscription_plans", h.Plan.Create)
		admin.GET("/admin/subscription_plans", h.Plan.List)
		admin.PUT("/admin/subscription_plans/deactivate/:id", h.Plan.Deactivate)
		admin.DELETE("/admin/subscription_plans/:id", h.Plan.Delete)

		admin.POST("/subscription/assign", h.Subscription.Assign)
		admin.POST("/subscriptions/assign/daily", h.Subscription.AssignDaily)
		admin.POST("/admin/subscriptions/assign", h.Subscription.Assign)
		admin.POST("/admin/subscriptions/assign/daily", h.Subscription.AssignDaily)
		admin.GET("/users/:id/subscriptions", h.Subscription.ListForUser)

		admin.POST("/users", h.Account.Create)
		admin.GET("/users/:id", h.Account.Get)
		admin.DELETE("/users/:id", h.Account.Delete)
		admin.PUT("/users/:id/password", h.Account.ChangePassword)

		admin.GET("/dashboard/user-stats", h.Dashboard.UserStats)
		admin.GET("/dashboard/subscription/stats", h.Dashboard.SubscriptionStats)
		admin.GET("/dashboard/subscription/payment", h.Dashboard.WeeklyClients)
		admin.GET("/dashboard/monthly/payment", h.Dashboard.MonthlyProfit)
		admin.GET("/dashboard/profit", h.Dashboard.Profit)
		admin.GET("/dashboard/notifications", h.Dashboard.Notifications)
		admin.GET("/dashboard/payments/history", h.Dashboard.PaymentHistory)
	}

	return router
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
