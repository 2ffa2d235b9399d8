package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/versin01/vertical-systems-crm/internal/authz"
	"github.com/versin01/vertical-systems-crm/internal/handlers"
	"github.com/versin01/vertical-systems-crm/internal/metrics"
	"github.com/versin01/vertical-systems-crm/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	recorder *metrics.Recorder,
	dealHandler *handlers.DealHandler,
	leadHandler *handlers.LeadHandler,
	reportHandler *handlers.ReportHandler,
	liveHandler *handlers.LiveHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", handlers.Health)
	r.GET("/metrics", gin.WrapH(recorder.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	api.Use(middleware.ReadOnlyGuard())

	api.GET("/stages", middleware.RequireSection(authz.SectionDashboard), handlers.Stages)

	// DEALS
	deals := api.Group("/deals", middleware.RequireSection(authz.SectionPipeline))
	{
		deals.GET("", dealHandler.List)
		deals.POST("", dealHandler.Create)
		deals.GET("/:id", dealHandler.GetByID)
		deals.PUT("/:id", dealHandler.Update)
		deals.DELETE("/:id", dealHandler.Delete)
		deals.POST("/:id/stage", dealHandler.MoveStage)
	}

	// PIPELINE
	pl := api.Group("/pipeline", middleware.RequireSection(authz.SectionPipeline))
	{
		pl.GET("/board", dealHandler.Board)
		pl.GET("/metrics", dealHandler.Metrics)
		pl.GET("/live", liveHandler.Board)
	}

	// LEADS
	leads := api.Group("/leads", middleware.RequireSection(authz.SectionLeads))
	{
		leads.GET("", leadHandler.List)
		leads.POST("", leadHandler.Create)
		leads.GET("/:id", leadHandler.GetByID)
	}

	// REPORTS
	reports := api.Group("/reports", middleware.RequireSection(authz.SectionReports))
	{
		reports.GET("/owners", reportHandler.Owners)
		reports.GET("/pipeline.pdf", reportHandler.PipelinePDF)
	}

	return r
}
