package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-assistant-api/api/swagger"
	"github.com/noah-isme/campus-assistant-api/internal/handler"
	"github.com/noah-isme/campus-assistant-api/internal/middleware"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/internal/repository"
	"github.com/noah-isme/campus-assistant-api/internal/service"
	"github.com/noah-isme/campus-assistant-api/pkg/cache"
	"github.com/noah-isme/campus-assistant-api/pkg/config"
	"github.com/noah-isme/campus-assistant-api/pkg/database"
	"github.com/noah-isme/campus-assistant-api/pkg/logger"
	"github.com/noah-isme/campus-assistant-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/campus-assistant-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-assistant-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-assistant-api/pkg/storage"
)

// @title Campus Assistant API
// @version 1.0.0
// @description Notices, FAQs, scraping and a keyword chatbot for a college campus
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Migrations.Auto {
		if err := migrateUp(cfg.Database, cfg.Migrations.Path, logr); err != nil {
			logr.Fatal("auto migration failed", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	noticeFiles, err := storage.NewLocalStorage(cfg.Uploads.NoticeDir)
	if err != nil {
		logr.Fatal("notice upload dir", zap.Error(err))
	}
	scrapedFiles, err := storage.NewLocalStorage(cfg.Uploads.ScrapedDir)
	if err != nil {
		logr.Fatal("scraped upload dir", zap.Error(err))
	}
	exportFiles, err := storage.NewLocalStorage(cfg.Uploads.ExportDir)
	if err != nil {
		logr.Fatal("export dir", zap.Error(err))
	}

	mail, err := mailer.New(cfg.Mail, cfg.College.Domain, logr)
	if err != nil {
		logr.Fatal("mail transport", zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	faqRepo := repository.NewFAQRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	scraperRepo := repository.NewScraperRepository(db)
	logRepo := repository.NewLogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	logs := service.NewLogService(logRepo, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo.Enabled())
	pdfSvc := service.NewPDFService(logs, logr)
	ingest := service.NewIngestService(documentRepo, pdfSvc, metrics, logr)

	authSvc := service.NewAuthService(userRepo, logs, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	if _, err := authSvc.EnsureAdmin(ctx, cfg.Admin.LoginID, cfg.Admin.Password); err != nil {
		logr.Fatal("failed to provision admin", zap.Error(err))
	}

	userSvc := service.NewUserService(userRepo, cacheSvc, logs, validate, logr)
	notifier := service.NewNotificationService(userRepo, mail, logs, metrics, cfg.College.Domain, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, noticeFiles, ingest, notifier, cacheSvc, logs, validate, logr)
	faqSvc := service.NewFAQService(faqRepo, ingest, cacheSvc, logs, validate, logr)
	fileSvc := service.NewFileService(noticeRepo, noticeFiles, logs, logr)
	chatbotSvc := service.NewChatbotService(metrics, logr)
	scraperSvc := service.NewScraperService(scraperRepo, ingest, scrapedFiles, cacheSvc, metrics, logs, validate, logr, service.ScraperConfig{
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
		Workers:   cfg.Scraper.Workers,
		MaxBytes:  cfg.Scraper.MaxBytes,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Users:     userRepo,
		Notices:   noticeRepo,
		FAQs:      faqRepo,
		Documents: documentRepo,
		Websites:  scraperRepo,
		Emails:    logRepo,
		Cache:     cacheSvc,
		Logger:    logr,
		Config:    service.DashboardServiceConfig{CacheTTL: cfg.Cache.TTL},
	})
	exportSvc := service.NewExportService(logs, scraperRepo, exportFiles,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		validate, logr, service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL})

	scraperSvc.Start(ctx)
	defer scraperSvc.Stop()
	go cleanupExports(ctx, exportSvc, cfg.Exports.SignedURLTTL, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeDeps{
		auth:      authSvc,
		logs:      logs,
		metrics:   metricsHandler,
		authH:     handler.NewAuthHandler(authSvc),
		users:     handler.NewUserHandler(userSvc),
		notices:   handler.NewNoticeHandler(noticeSvc),
		files:     handler.NewFileHandler(fileSvc),
		faqs:      handler.NewFAQHandler(faqSvc),
		chatbot:   handler.NewChatbotHandler(chatbotSvc),
		scraper:   handler.NewScraperHandler(scraperSvc),
		logViews:  handler.NewLogHandler(logs, exportSvc, ingest),
		dashboard: handler.NewDashboardHandler(dashboardSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

type routeDeps struct {
	auth      *service.AuthService
	logs      *service.LogService
	metrics   *handler.MetricsHandler
	authH     *handler.AuthHandler
	users     *handler.UserHandler
	notices   *handler.NoticeHandler
	files     *handler.FileHandler
	faqs      *handler.FAQHandler
	chatbot   *handler.ChatbotHandler
	scraper   *handler.ScraperHandler
	logViews  *handler.LogHandler
	dashboard *handler.DashboardHandler
}

func registerRoutes(api *gin.RouterGroup, d routeDeps) {
	staff := middleware.RequireRoles(d.logs, models.RoleModerator, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(d.logs, models.RoleAdmin)
	studentOnly := middleware.RequireRoles(d.logs, models.RoleStudent)

	public := api.Group("")
	public.Use(middleware.OptionalJWT(d.auth))
	{
		public.POST("/auth/login", d.authH.Login)
		public.POST("/auth/register", d.authH.Register)
		public.GET("/notices", d.notices.List)
		public.GET("/notices/categories", d.notices.Categories)
		public.GET("/notices/:id", d.notices.Get)
		public.GET("/faqs", d.faqs.ListAnswered)
		public.GET("/files/notices/:id", d.files.Download)
		public.POST("/chatbot/query", d.chatbot.Query)
		public.GET("/chatbot/health", d.chatbot.Health)
		public.GET("/exports/:token", d.logViews.DownloadExport)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(d.auth))
	secured.GET("/auth/me", d.authH.Me)

	student := secured.Group("/student", studentOnly)
	student.GET("/dashboard", d.dashboard.Student)
	student.GET("/faqs", d.faqs.ListMine)
	student.POST("/faqs", d.faqs.Submit)

	mod := secured.Group("", staff)
	mod.POST("/notices", middleware.Audit(d.logs, models.LogModuleNotice, "notice create"), d.notices.Create)
	mod.PUT("/notices/:id", middleware.Audit(d.logs, models.LogModuleNotice, "notice update"), d.notices.Update)
	mod.POST("/notices/:id/files", middleware.Audit(d.logs, models.LogModuleNotice, "notice file upload"), d.notices.UploadFile)
	mod.DELETE("/notices/:id/files/:fileId", middleware.Audit(d.logs, models.LogModuleNotice, "notice file delete"), d.notices.DeleteFile)
	mod.POST("/notices/:id/publish", middleware.Audit(d.logs, models.LogModuleNotice, "notice publish"), d.notices.Publish)
	mod.DELETE("/notices/:id", middleware.Audit(d.logs, models.LogModuleNotice, "notice delete"), d.notices.Delete)
	mod.GET("/moderation/faqs", d.faqs.ListForModeration)
	mod.POST("/faqs", d.faqs.Create)
	mod.POST("/faqs/:id/answer", d.faqs.Answer)

	admin := secured.Group("", adminOnly)
	admin.DELETE("/faqs/:id", d.faqs.Delete)
	admin.GET("/admin/dashboard", d.dashboard.Admin)
	admin.GET("/admin/metrics", d.metrics.Snapshot)
	admin.GET("/admin/users", d.users.List)
	admin.POST("/admin/moderators", d.users.CreateModerator)
	admin.POST("/admin/users/purge-non-admins", d.users.PurgeNonAdmins)
	admin.POST("/admin/users/:id/activate", d.users.Activate)
	admin.POST("/admin/users/:id/deactivate", d.users.Deactivate)
	admin.DELETE("/admin/users/:id", d.users.Delete)
	admin.GET("/admin/logs/system", d.logViews.SystemLogs)
	admin.GET("/admin/logs/email", d.logViews.EmailLogs)
	admin.POST("/admin/logs/export", d.logViews.Export)
	admin.GET("/admin/documents", d.logViews.Documents)

	scraper := admin.Group("/admin/scraper")
	scraper.GET("/websites", d.scraper.ListWebsites)
	scraper.POST("/websites", middleware.Audit(d.logs, models.LogModuleScraper, "website add"), d.scraper.AddWebsite)
	scraper.POST("/websites/:id/enable", middleware.Audit(d.logs, models.LogModuleScraper, "website enable"), d.scraper.Enable)
	scraper.POST("/websites/:id/disable", middleware.Audit(d.logs, models.LogModuleScraper, "website disable"), d.scraper.Disable)
	scraper.DELETE("/websites/:id", middleware.Audit(d.logs, models.LogModuleScraper, "website delete"), d.scraper.DeleteWebsite)
	scraper.POST("/websites/:id/run", d.scraper.Run)
	scraper.POST("/run-all", d.scraper.RunAll)
	scraper.GET("/logs", d.scraper.Logs)
}

// migrateUp runs on its own connection because closing the migrator closes it.
func migrateUp(dbCfg config.DatabaseConfig, path string, logr *zap.Logger) error {
	conn, err := database.NewPostgres(dbCfg)
	if err != nil {
		return err
	}
	migrator, err := database.NewMigrator(conn, path, logr)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer migrator.Close() //nolint:errcheck
	return migrator.Up()
}

// cleanupExports removes expired export files until ctx is cancelled.
func cleanupExports(ctx context.Context, exports *service.ExportService, ttl time.Duration, logr *zap.Logger) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := exports.Cleanup(ttl)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}
