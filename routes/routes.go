package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"roomm8/config"
	"roomm8/handlers"
	"roomm8/middleware"
	"roomm8/models"
	"roomm8/utils"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm RoomM8",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterSessionRoutes registers login, logout and session inspection.
func RegisterSessionRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	s := api.Group("/session")
	{
		s.GET("", hb.GetSessionHandler)
		s.POST("/login", hb.LoginHandler)
		s.POST("/logout", hb.LogoutHandler)
	}
}

// RegisterRoomRoutes registers the public catalog.
func RegisterRoomRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	rooms := api.Group("/rooms")
	{
		rooms.GET("", hb.ListRoomsHandler)
		rooms.GET("/:id", hb.GetRoomHandler)
		rooms.POST("/:id/availability", hb.CheckAvailabilityHandler)
	}
}

// RegisterCartRoutes registers cart editing. The cart works without login.
func RegisterCartRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	cart := api.Group("/cart")
	{
		cart.GET("", hb.GetCartHandler)
		cart.POST("/items", hb.AddCartItemHandler)
		cart.DELETE("/items/:index", hb.RemoveCartItemHandler)
		cart.PATCH("/items/:index/guests", hb.UpdateGuestsHandler)
	}
}

// RegisterCheckoutRoutes registers the auth gate and confirmation.
func RegisterCheckoutRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	checkout := api.Group("/checkout")
	{
		checkout.POST("/begin", hb.BeginCheckoutHandler)

		// Protected routes (Require Authentication)
		protected := checkout.Group("")
		protected.Use(middleware.RequireRole())
		protected.GET("/pending", hb.PendingCheckoutHandler)
		protected.POST("/confirm", hb.ConfirmCheckoutHandler)
		protected.GET("/receipts", hb.ListReceiptsHandler)
	}
}

// RegisterBookingRoutes registers the user's own bookings.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.Use(middleware.RequireRole())
		bookings.GET("", hb.MyBookingsHandler)
		bookings.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterOwnerRoutes registers property owner and admin operations.
func RegisterOwnerRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	owner := api.Group("/owner")
	{
		owner.Use(middleware.RequireRole(models.RolePropertyOwner, models.RoleAdmin))
		owner.GET("/properties", hb.OwnerPropertiesHandler)
		owner.DELETE("/properties/:id", hb.DeletePropertyHandler)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.PUT("/properties/:id/status", hb.UpdatePropertyStatusHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	api.Use(middleware.SessionMiddleware(hb.Sessions, middleware.CookieOptions{
		MaxAge: int(config.SessionTTL().Seconds()),
		Secure: config.AppConfig.CookieSecure,
	}))

	RegisterSessionRoutes(api, hb)
	RegisterRoomRoutes(api, hb)
	RegisterCartRoutes(api, hb)
	RegisterCheckoutRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterOwnerRoutes(api, hb)
}
