package router

import (
	"fashun-backend/internal/handlers"
	"fashun-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Products   *handlers.ProductHandler
	Carts      *handlers.CartHandler
	Cron       *handlers.CronHandler
	CronSecret string
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	products := r.Group("/products")
	{
		products.POST("", d.Products.Create)
		products.GET("/:id", d.Products.Get)
		products.POST("/:id/check-stock", d.Products.CheckStock)
		products.PUT("/:id/update-stock", d.Products.UpdateStock)
	}

	carts := r.Group("/carts")
	{
		carts.POST("", d.Carts.Create)
		carts.GET("/:id", d.Carts.Get)
		carts.DELETE("/:id", d.Carts.Clear)
		carts.POST("/:id/items", d.Carts.AddItem)
		carts.PATCH("/:id/items", d.Carts.UpdateQuantity)
		carts.DELETE("/:id/items", d.Carts.RemoveItem)
		carts.POST("/:id/discount", d.Carts.ApplyDiscount)
		carts.DELETE("/:id/discount", d.Carts.RemoveDiscount)
		carts.POST("/:id/checkout", d.Carts.Checkout)
	}

	r.POST("/abandoned-carts/:id/recovered", d.Carts.MarkRecovered)

	cron := r.Group("/cron", middleware.CronAuth(d.CronSecret, log))
	{
		cron.GET("/abandoned-cart-recovery", d.Cron.AbandonedCartRecovery)
	}

	return r
}
