// Package app собирает backend: config -> db -> redis -> шина событий -> сервисы -> gin.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"socialbook/api/handlers"
	"socialbook/api/middleware"
	"socialbook/api/routes"
	"socialbook/config"
	"socialbook/db"
	"socialbook/logger"
	"socialbook/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "socialbook"

type App struct {
	Config   *config.ConfigSchema
	DB       *db.Manager
	Redis    *redis.Client
	Bus      services.EventBus
	Media    *services.MediaStore
	Handler  *handlers.Handler
	Seeder   *services.Seeder
	Engine   *gin.Engine
	stopPush context.CancelFunc
}

// Deps are the infrastructure pieces Build needs; New fills them from the config.
type Deps struct {
	DB       *db.Manager
	Redis    *redis.Client
	Sessions services.SessionStore
	Bus      services.EventBus
}

// New connects to everything the config names. Redis and RabbitMQ are optional:
// without them sessions live in memory and events stay in-process.
func New(conf *config.ConfigSchema) (*App, error) {
	manager, err := db.Connect(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	deps := Deps{DB: manager}

	if conf.Redis.Host != "" {
		client, err := services.NewRedisClient(conf)
		if err != nil {
			manager.Close()
			return nil, err
		}
		deps.Redis = client
		deps.Sessions = services.NewRedisSessionStore(client)
	} else {
		logger.Warn("redis is not configured, sessions are kept in memory")
		deps.Sessions = services.NewMemorySessionStore()
	}

	if conf.RabbitMQ.URL != "" {
		bus, err := services.NewRabbitEventBus(conf.RabbitMQ.URL, conf.RabbitMQ.Queue)
		if err != nil {
			manager.Close()
			return nil, err
		}
		deps.Bus = bus
	} else {
		deps.Bus = services.NewLocalEventBus()
	}
	return Build(conf, deps)
}

func Build(conf *config.ConfigSchema, deps Deps) (*App, error) {
	media, err := services.NewMediaStore(conf.Backend.MediaDir)
	if err != nil {
		return nil, err
	}
	users := services.NewUserService(deps.DB)
	profiles := services.NewProfileService(deps.DB, media)
	notifications := services.NewNotificationService(deps.DB, deps.Bus)
	follows := services.NewFollowService(deps.DB, users, profiles, notifications)
	h := &handlers.Handler{
		Users:         users,
		Sessions:      deps.Sessions,
		Profiles:      profiles,
		Posts:         services.NewPostService(deps.DB, media, profiles, notifications),
		Comments:      services.NewCommentService(deps.DB, profiles, notifications),
		Follows:       follows,
		Blocks:        services.NewBlockService(deps.DB, profiles, users),
		Notifications: notifications,
		WS:            services.NewWSConnManager(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err = deps.Bus.Consume(ctx, h.WS.Push); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start notification consumer: %w", err)
	}

	a := &App{
		Config:   conf,
		DB:       deps.DB,
		Redis:    deps.Redis,
		Bus:      deps.Bus,
		Media:    media,
		Handler:  h,
		Seeder:   &services.Seeder{Users: users, Profiles: profiles, Follows: follows},
		stopPush: cancel,
	}
	a.Engine = a.router()
	return a, nil
}

func (a *App) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.PrometheusMiddleware(serviceName))
	if a.Config.Backend.Gzip {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/ws/", "/metrics", "/media/"})))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/media", a.Config.Backend.MediaDir)

	auth := middleware.SessionAuth(a.Handler.Sessions, a.Handler.Users)
	routes.PublicApi(router, a.Handler, auth)
	return router
}

func (a *App) Addr() string {
	return a.Config.Backend.Host + ":" + strconv.Itoa(a.Config.Backend.Port)
}

// Server returns an http.Server ready for ListenAndServe.
func (a *App) Server() *http.Server {
	return &http.Server{Addr: a.Addr(), Handler: a.Engine}
}

func (a *App) Close() {
	a.stopPush()
	if err := a.Bus.Close(); err != nil {
		logger.Warn("failed to close event bus", zap.Error(err))
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if err := a.DB.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
}
