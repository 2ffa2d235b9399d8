package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "github.com/versin01/vertical-systems-crm/docs"
	"github.com/versin01/vertical-systems-crm/internal/config"
	"github.com/versin01/vertical-systems-crm/internal/handlers"
	"github.com/versin01/vertical-systems-crm/internal/logging"
	"github.com/versin01/vertical-systems-crm/internal/metrics"
	"github.com/versin01/vertical-systems-crm/internal/middleware"
	"github.com/versin01/vertical-systems-crm/internal/pdf"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
	"github.com/versin01/vertical-systems-crm/internal/realtime"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
	"github.com/versin01/vertical-systems-crm/internal/routes"
	"github.com/versin01/vertical-systems-crm/internal/services"
)

func Run() {
	cfg, err := config.LoadConfig(config.DefaultPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// === Storage ===
	dealRepo, leadRepo, closeDB, err := openRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeDB()

	// === Services ===
	recorder := metrics.NewRecorder()
	hub := realtime.NewBoardHub(logger)
	dealService := services.NewDealService(dealRepo, logger,
		services.WithMetrics(recorder),
		services.WithPolicy(pipeline.ParsePolicy(cfg.Pipeline.TransitionPolicy)),
		services.WithNotifier(buildNotifier(cfg, logger)),
		services.WithStageListener(hub),
	)
	leadService := services.NewLeadService(leadRepo)
	reportService := services.NewReportService(dealRepo, pdf.NewReportGenerator(cfg.Reports.FontPath))

	router := NewRouter(cfg, logger, recorder,
		handlers.NewDealHandler(dealService),
		handlers.NewLeadHandler(leadService),
		handlers.NewReportHandler(reportService),
		handlers.NewLiveHandler(hub),
	)

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", listenAddr), zap.String("storage", cfg.Storage.Driver))
	if err := router.Run(listenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// NewRouter assembles the gin engine with middleware and routes.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	recorder *metrics.Recorder,
	dealHandler *handlers.DealHandler,
	leadHandler *handlers.LeadHandler,
	reportHandler *handlers.ReportHandler,
	liveHandler *handlers.LiveHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger, recorder))
	router.Use(corsMiddleware())

	return routes.SetupRoutes(router, []byte(cfg.Auth.JWTSecret), recorder, dealHandler, leadHandler, reportHandler, liveHandler)
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.DealRepository, repositories.LeadRepository, func(), error) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn("using in-memory storage; data is lost on restart")
		return repositories.NewMemoryDealRepository(), repositories.NewMemoryLeadRepository(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if cfg.Database.RunMigrations {
		if err := repositories.ApplyMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}
	return repositories.NewDealRepository(db), repositories.NewLeadRepository(db), closeDB, nil
}

func buildNotifier(cfg *config.Config, logger *zap.Logger) services.Notifier {
	n := cfg.Notifications
	if !n.Enabled {
		return services.NopNotifier{}
	}
	var out services.MultiNotifier
	if n.Telegram.BotToken != "" && n.Telegram.ChatID != 0 {
		tg, err := services.NewTelegramNotifier(n.Telegram.BotToken, n.Telegram.ChatID)
		if err != nil {
			logger.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			out = append(out, tg)
		}
	}
	if n.Email.SMTPHost != "" && len(n.Email.Recipients) > 0 {
		out = append(out, services.NewEmailNotifier(
			n.Email.SMTPHost,
			n.Email.SMTPPort,
			n.Email.SMTPUser,
			n.Email.SMTPPassword,
			n.Email.FromEmail,
			n.Email.Recipients,
		))
	}
	if len(out) == 0 {
		return services.NopNotifier{}
	}
	return out
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
