package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventsdiscovery/config"
	"eventsdiscovery/database"
	routes "eventsdiscovery/internal/app/http"
	"eventsdiscovery/internal/app/catalog"
	"eventsdiscovery/internal/app/http/middleware"
	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/clock"
	"eventsdiscovery/internal/infra/rabbitmq"
	"eventsdiscovery/internal/logging"
	"eventsdiscovery/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type stores struct {
	events catalog.EventStore
	venues catalog.VenueStore
	users  interface {
		routes.UserStore
		upgrade.TierWriter
	}
}

func openStores() stores {
	if config.STORE_DRIVER == config.StoreDriverMemory {
		logging.Warn().Msg("using in-memory stores; data is lost on restart")
		return stores{
			events: store.NewMemoryEventStore(),
			venues: store.NewMemoryVenueStore(),
			users:  store.NewMemoryUserStore(),
		}
	}

	db, err := database.InitDB(config.DB_URL)
	if err != nil {
		logging.Fatal().Err(err).Msg("database")
	}
	return stores{
		events: store.NewEventStore(db),
		venues: store.NewVenueStore(db),
		users:  store.NewUserStore(db),
	}
}

// openNotifier publishes tier upgrades when RabbitMQ is configured.
func openNotifier(ctx context.Context) (upgrade.Notifier, func()) {
	if config.RABBITMQ_URL == "" {
		return upgrade.NopNotifier{}, func() {}
	}

	conn, err := rabbitmq.Connect(ctx, config.RABBITMQ_URL, 5)
	if err != nil {
		logging.Error().Err(err).Msg("rabbitmq unavailable, upgrades will not be published")
		return upgrade.NopNotifier{}, func() {}
	}
	pub, err := rabbitmq.NewPublisher(conn)
	if err != nil {
		logging.Error().Err(err).Msg("rabbitmq publisher")
		_ = conn.Close()
		return upgrade.NopNotifier{}, func() {}
	}
	return upgrade.NewPublishingNotifier(pub), func() {
		_ = pub.Close()
		_ = conn.Close()
	}
}

func main() {
	config.LoadEnv()
	logging.Init(logging.Config{Level: config.LOG_LEVEL, Format: config.LOG_FORMAT})

	loc, err := time.LoadLocation(config.TIMEZONE)
	if err != nil {
		logging.Warn().Err(err).Str("timezone", config.TIMEZONE).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}
	clk := clock.NewSystem(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStores()
	notifier, closeNotifier := openNotifier(ctx)
	defer closeNotifier()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS before routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:    config.JWT_SECRET,
		Catalog:      catalog.NewService(st.events, st.venues, clk),
		Upgrades:     upgrade.NewWorkflow(st.users, notifier, clk),
		Users:        st.users,
		WriteLimiter: middleware.NewRateLimiter(config.RATE_LIMIT_PER_MINUTE, config.RATE_LIMIT_BURST),
	})

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}
