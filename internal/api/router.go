package api

import (
	"github.com/Ontinet-com/contract/internal/api/cron"
	v1 "github.com/Ontinet-com/contract/internal/api/v1"
	"github.com/Ontinet-com/contract/internal/config"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Contract  *v1.ContractHandler
	Template  *v1.ContractTemplateHandler
	Product   *v1.ProductHandler
	Pricelist *v1.PricelistHandler
	Order     *v1.OrderHandler

	CronContract *cron.ContractHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.IdentityMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	cronGroup := router.Group("/cron")
	{
		contracts := cronGroup.Group("/contracts")
		contracts.POST("/generate", handlers.CronContract.GenerateOrders)
	}

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	contracts := router.Group("/contracts")
	{
		contracts.POST("", handlers.Contract.CreateContract)
		contracts.GET("", handlers.Contract.ListContracts)
		contracts.GET("/:id", handlers.Contract.GetContract)
		contracts.PUT("/:id", handlers.Contract.UpdateContract)
		contracts.DELETE("/:id", handlers.Contract.DeleteContract)

		contracts.POST("/:id/lines", handlers.Contract.AddLine)
		contracts.PUT("/:id/lines/:line_id", handlers.Contract.UpdateLine)
		contracts.DELETE("/:id/lines/:line_id", handlers.Contract.DeleteLine)
		contracts.POST("/:id/lines/:line_id/onchange-product", handlers.Contract.OnChangeProduct)

		contracts.POST("/:id/apply-template", handlers.Contract.ApplyTemplate)
		contracts.POST("/:id/duplicate", handlers.Contract.DuplicateContract)

		contracts.POST("/:id/generate", handlers.Contract.GenerateOrder)
		contracts.POST("/:id/generate-next", handlers.Contract.GenerateNextOrder)
		contracts.GET("/:id/orders", handlers.Contract.ListOrders)
		contracts.GET("/:id/orders/count", handlers.Contract.CountOrders)
	}

	templates := router.Group("/contract-templates")
	{
		templates.POST("", handlers.Template.CreateTemplate)
		templates.GET("", handlers.Template.ListTemplates)
		templates.GET("/:id", handlers.Template.GetTemplate)
	}

	products := router.Group("/products")
	{
		products.POST("", handlers.Product.CreateProduct)
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:id", handlers.Product.GetProduct)
	}

	pricelists := router.Group("/pricelists")
	{
		pricelists.POST("", handlers.Pricelist.CreatePricelist)
		pricelists.GET("/:id", handlers.Pricelist.GetPricelist)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", handlers.Order.ListOrders)
		orders.GET("/:id", handlers.Order.GetOrder)
		orders.POST("/:id/confirm", handlers.Order.ConfirmOrder)
	}
}
