package api

import (
	"log"
	stdhttp "net/http"

	"parkingsoft/internal/config"
	h "parkingsoft/internal/http/handlers"
	"parkingsoft/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	middleware.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		protected := api.Group("")
		protected.Use(middleware.Protect())
		{
			parking := protected.Group("/parking")
			parking.GET("/spaces", h.GetParkingSpaces)
			parking.POST("/spaces", middleware.RequireRoles("admin"), h.CreateParkingSpace)
			parking.PUT("/spaces/:id", middleware.RequireRoles("admin"), h.UpdateParkingSpace)
			parking.POST("/entry", h.RegisterVehicleEntry)
			parking.POST("/exit", h.RegisterVehicleExit)

			vehicles := protected.Group("/vehicles")
			vehicles.GET("", h.GetVehicles)
			vehicles.GET("/search/:licensePlate", h.SearchVehicleByPlate)
			vehicles.GET("/:id", h.GetVehicleByID)
			vehicles.POST("", h.CreateVehicle)
			vehicles.PUT("/:id", h.UpdateVehicle)
			vehicles.DELETE("/:id", h.DeleteVehicle)

			payments := protected.Group("/payments")
			payments.GET("", middleware.RequireRoles("admin"), h.GetPayments)
			payments.GET("/reports/daily", middleware.RequireRoles("admin"), h.GetDailyPaymentsReport)
			payments.GET("/:id", h.GetPaymentByID)
			payments.GET("/:id/receipt", h.GetPaymentReceipt)
			payments.POST("", h.CreatePayment)
			payments.POST("/:id/void", middleware.RequireRoles("admin"), h.VoidPayment)
		}
	}

	return r
}
