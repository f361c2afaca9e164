package routes

import (
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/handlers"
	"github.com/ArowuTest/luckydraw-backend/internal/middleware"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds the services the HTTP layer is built from
type HandlerDependencies struct {
	LuckyDrawService    services.LuckyDrawService
	EventService        services.EventService
	PrizeService        services.PrizeService
	DisplayService      services.DisplayService
	AuthService         services.AuthService
	NotificationService services.NotificationService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	eventHandler := handlers.NewEventHandler(deps.EventService)
	prizeHandler := handlers.NewPrizeHandler(deps.PrizeService)
	luckyDrawHandler := handlers.NewLuckyDrawHandler(deps.LuckyDrawService)
	displayHandler := handlers.NewDisplayHandler(deps.DisplayService)
	notificationHandler := handlers.NewNotificationHandler(deps.NotificationService)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Display screens connect without a token
		public.GET("/events/:eventId/display/stream", displayHandler.Stream)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret))
	{
		events := protected.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:eventId", eventHandler.GetEvent)
			events.DELETE("/:eventId", eventHandler.DeleteEvent)

			events.POST("/:eventId/attendees", eventHandler.ImportAttendees)
			events.POST("/:eventId/attendees/:attendeeId/check-in", eventHandler.CheckIn)
			events.DELETE("/:eventId/attendees/:attendeeId/check-in", eventHandler.UndoCheckIn)

			prizes := events.Group("/:eventId/prizes")
			{
				prizes.GET("", prizeHandler.ListPrizes)
				prizes.POST("", prizeHandler.CreatePrize)
				prizes.GET("/:prizeId", prizeHandler.GetPrize)
				prizes.PUT("/:prizeId", prizeHandler.UpdatePrize)
				prizes.DELETE("/:prizeId", prizeHandler.DeletePrize)
			}

			luckyDraw := events.Group("/:eventId/luckydraw")
			{
				luckyDraw.GET("/eligible", luckyDrawHandler.ListEligible)
				luckyDraw.GET("/winners", luckyDrawHandler.ListWinners)
				luckyDraw.POST("/draw", luckyDrawHandler.DrawOne)
				luckyDraw.POST("/draw/batch", luckyDrawHandler.DrawBatch)
				luckyDraw.DELETE("/winners/:winnerId", luckyDrawHandler.RemoveWinner)
				luckyDraw.DELETE("/winners", luckyDrawHandler.RemoveAllWinners)

				luckyDraw.GET("/display/panel", displayHandler.PanelStream)
				luckyDraw.POST("/display/start", displayHandler.StartDraw)
				luckyDraw.POST("/display/prize", displayHandler.SelectPrize)
				luckyDraw.GET("/notifications", notificationHandler.ListNotifications)
			}
		}
	}

	return router
}
