package routes

import (
	"context"
	"net/http"
	"sync"

	adminapi "eventsdiscovery/internal/api/admin"
	eventsapi "eventsdiscovery/internal/api/events"
	filtersapi "eventsdiscovery/internal/api/filters"
	usersapi "eventsdiscovery/internal/api/users"
	venuesapi "eventsdiscovery/internal/api/venues"
	"eventsdiscovery/internal/app/catalog"
	"eventsdiscovery/internal/app/http/middleware"
	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserStore interface {
	Ensure(ctx context.Context, u users.User) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

type Deps struct {
	JWTSecret string
	Catalog   *catalog.Service
	Upgrades  *upgrade.Workflow
	Users     UserStore

	// WriteLimiter throttles POST routes per client IP. Nil disables it.
	WriteLimiter *middleware.RateLimiter
}

var registerValidators sync.Once

// RegisterValidators adds the "tier" binding tag to gin's validator.
func RegisterValidators() {
	registerValidators.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err := v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
			return tiers.Tier(fl.Field().String()).Valid()
		})
		if err != nil {
			logging.Error().Err(err).Msg("register tier validator")
		}
	})
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	RegisterValidators()

	r.Use(middleware.RequestID(), middleware.AccessLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	events := eventsapi.NewHandler(d.Catalog)
	venues := venuesapi.NewHandler(d.Catalog)
	filters := filtersapi.NewHandler(d.Catalog)
	me := usersapi.NewHandler(d.Upgrades)
	admin := adminapi.NewHandler(d.Users)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret, d.Users), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", me.GetCurrentUser)
	auth.POST("/users", middleware.RateLimit(d.WriteLimiter), me.UpgradeTier)

	auth.GET("/events", events.List)
	auth.GET("/events/:id", events.Get)
	auth.POST("/events", middleware.RateLimit(d.WriteLimiter), events.Create)

	auth.GET("/venues", venues.List)
	auth.POST("/venues", middleware.RateLimit(d.WriteLimiter), venues.Create)

	auth.GET("/filters", filters.Get)

	// Admin routes
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(d.JWTSecret, d.Users), middleware.RequireRole(users.RoleAdmin))
	adminGroup.GET("/users", admin.ListAllUsers)
}

// NewRouter builds a gin engine with recovery and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, d)
	return r
}
