package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/config"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/http/middleware"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/handler"
	"github.com/ignatzorin/fairlance-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	tokenManager *service.TokenManager,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	catalogHandler *handler.CatalogHandler,
	projectHandler *handler.ProjectHandler,
	proposalHandler *handler.ProposalHandler,
	escrowHandler *handler.EscrowHandler,
	matchingHandler *handler.MatchingHandler,
	notificationHandler *handler.NotificationHandler,
	wsHandler *handler.WSHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	if cfg.MediaStoragePath != "" {
		r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты.
	api.GET("/catalog/categories", catalogHandler.ListCategories)
	api.GET("/catalog/skills", catalogHandler.ListSkills)
	api.GET("/projects", projectHandler.ListOpenProjects)
	api.GET("/projects/:id", middleware.UUIDValidator("id"), projectHandler.GetProject)
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/me", profileHandler.GetMe)
		protected.PUT("/me/profile", profileHandler.UpdateProfile)
		protected.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.GetProfile)

		protected.POST("/projects", projectHandler.CreateProject)
		protected.GET("/projects/mine", projectHandler.ListMyProjects)
		protected.POST("/projects/:id/complete", middleware.UUIDValidator("id"), projectHandler.CompleteProject)
		protected.POST("/projects/:id/attachments", middleware.UUIDValidator("id"), projectHandler.UploadAttachment)
		protected.POST("/projects/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.SubmitProposal)
		protected.GET("/projects/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.ListProjectProposals)

		protected.GET("/proposals/mine", proposalHandler.ListMyProposals)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.GetProposal)
		protected.POST("/proposals/:id/accept", middleware.UUIDValidator("id"), proposalHandler.AcceptProposal)
		protected.POST("/proposals/:id/withdraw", middleware.UUIDValidator("id"), proposalHandler.WithdrawProposal)

		protected.POST("/escrow", escrowHandler.CreateEscrow)
		protected.GET("/escrow", escrowHandler.ListMyEscrows)
		protected.GET("/escrow/:id", middleware.UUIDValidator("id"), escrowHandler.GetEscrow)
		protected.POST("/escrow/:id/fund", middleware.UUIDValidator("id"), escrowHandler.FundEscrow)
		protected.POST("/escrow/:id/release", middleware.UUIDValidator("id"), escrowHandler.ReleaseEscrow)
		protected.POST("/escrow/:id/dispute", middleware.UUIDValidator("id"), escrowHandler.DisputeEscrow)

		protected.GET("/matching/projects/:id/freelancers", middleware.UUIDValidator("id"), matchingHandler.MatchFreelancers)
		protected.GET("/matching/recommendations", matchingHandler.RecommendProjects)
		protected.GET("/matching/freelancers/:id/similar", middleware.UUIDValidator("id"), matchingHandler.SimilarFreelancers)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.CountUnread)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.DeleteNotification)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(valueobject.RoleAdmin))
	{
		admin.POST("/escrow/:id/refund", middleware.UUIDValidator("id"), escrowHandler.RefundEscrow)
	}

	return r
}
