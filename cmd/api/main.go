package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jojie16/SafeZone/internal/config"
	"github.com/Jojie16/SafeZone/internal/handlers"
	"github.com/Jojie16/SafeZone/internal/media"
	"github.com/Jojie16/SafeZone/internal/repository"
	"github.com/Jojie16/SafeZone/internal/services"
	xhttp "github.com/Jojie16/SafeZone/pkg/http"
	"github.com/Jojie16/SafeZone/pkg/logger"
	"github.com/Jojie16/SafeZone/pkg/pg"
	"github.com/Jojie16/SafeZone/pkg/prom"
	"github.com/Jojie16/SafeZone/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 30))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis, running without alert cache", "error", err)
		redisAdap = nil
	}

	host, _ := os.Hostname()
	if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
		logger.Error("failed creating metrics", "error", err)
	}
	if config.Get().AppDebugMetricsAddr != "" {
		go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
	}

	mediaStore, err := media.NewStore(
		config.Get().UploadDir,
		config.Get().UploadMaxBytes,
		config.Get().AllowedExtensions(),
	)
	if err != nil {
		logger.Error("failed creating media store", "error", err)
		return
	}

	userRepo := repository.NewUserRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// services
	cacheTTL := time.Duration(config.Get().AlertCacheTTLSeconds) * time.Second
	defaults := services.DefaultLocation{
		Lat:      config.Get().DefaultGpsLat,
		Lng:      config.Get().DefaultGpsLng,
		Accuracy: config.Get().DefaultGpsAccuracy,
	}
	alertService := services.NewAlertService(userRepo, incidentRepo, messageRepo, redisAdap, defaults, cacheTTL)
	chatService := services.NewChatService(incidentRepo, messageRepo, redisAdap)
	healthService := services.NewHealthService(db)

	// v1 handlers
	alertHandler := handlers.NewAlertHandler(alertService)
	chatHandler := handlers.NewChatHandler(chatService, mediaStore)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterAlertRoutes(g, alertHandler)
	handlers.RegisterChatRoutes(g, chatHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()
	logger.Info("safezone api started", "version", version, "commit", commit, "date", date)

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
