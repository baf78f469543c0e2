package routes

import (
	"net/http"

	"github.com/sagarvd04/imagify-golang/internal/handlers"
	"github.com/sagarvd04/imagify-golang/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware lets the web frontend talk to us from another origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		// The browser's preflight OPTIONS request gets an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	// --- Liveness ---
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API working")
	})

	user := router.Group("/api/user")
	{
		// --- Public Routes ---
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.GET("/plans", h.GetPlans)

		// Verification is driven by the gateway's order id, not by a
		// logged-in caller, so it stays public.
		user.POST("/verify-razor", h.VerifyRazorpay)

		// --- Protected Routes (Login Required) ---
		authed := user.Group("/")
		authed.Use(middleware.AuthMiddleware(h.Tokens))
		{
			authed.GET("/credits", h.Credits)
			authed.POST("/pay-razor", h.PayRazorpay)
		}
	}

	return router
}
