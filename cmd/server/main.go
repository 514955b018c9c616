package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"report-forge/internal/config"
	"report-forge/internal/handler"
	"report-forge/internal/logger"
	"report-forge/internal/middleware"
	"report-forge/internal/model"
	"report-forge/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	if cfg.Auth.JWTSecret == "" {
		slog.Error("auth.jwt_secret is required (set JWT_SECRET)")
		os.Exit(1)
	}
	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key not set, generation calls will fail")
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.Member{}, &model.ReportArchive{}); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	aiSvc := service.NewAIService(cfg.AI)
	historySvc := service.NewHistoryService(db)
	sessionSvc := service.NewSessionService(aiSvc, historySvc)
	authSvc := service.NewAuthService(db)

	secret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authH := handler.NewAuthHandler(authSvc, secret, tokenTTL)
	sessionH := handler.NewSessionHandler(sessionSvc)
	reportH := handler.NewReportHandler(sessionSvc, historySvc, aiSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)
	api := r.Group("/api", middleware.JWTAuth(secret))
	api.POST("/sessions", sessionH.Create)
	api.GET("/sessions/:id", sessionH.Get)
	api.PUT("/sessions/:id/company", sessionH.SetCompany)
	api.PUT("/sessions/:id/employee", sessionH.SetEmployee)
	api.PUT("/sessions/:id/notes", sessionH.SetNotes)
	api.POST("/sessions/:id/next", sessionH.Next)
	api.POST("/sessions/:id/back", sessionH.Back)
	api.POST("/sessions/:id/generate", sessionH.Generate)
	api.PUT("/sessions/:id/report", sessionH.EditReport)
	api.POST("/sessions/:id/reset", sessionH.Reset)
	api.GET("/sessions/:id/pdf", reportH.DownloadPDF)
	api.GET("/sessions/:id/email", reportH.EmailDraft)
	api.POST("/polish", reportH.Polish)
	api.POST("/brand-color", reportH.BrandColor)
	api.GET("/history", reportH.History)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
