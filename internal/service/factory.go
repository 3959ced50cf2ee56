package service

import (
	"github.com/Ontinet-com/contract/internal/cache"
	"github.com/Ontinet-com/contract/internal/clock"
	"github.com/Ontinet-com/contract/internal/config"
	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/domain/order"
	"github.com/Ontinet-com/contract/internal/domain/pricelist"
	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  clock.Clock
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	ContractRepo     contract.Repository
	ContractLineRepo contract.LineRepository
	TemplateRepo     contract.TemplateRepository
	OrderRepo        order.Repository
	ProductRepo      product.Repository
	PricelistRepo    pricelist.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	clk clock.Clock,
	cache cache.Cache,
	sentry *sentry.Service,
	contractRepo contract.Repository,
	contractLineRepo contract.LineRepository,
	templateRepo contract.TemplateRepository,
	orderRepo order.Repository,
	productRepo product.Repository,
	pricelistRepo pricelist.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		DB:               db,
		Clock:            clk,
		Cache:            cache,
		Sentry:           sentry,
		ContractRepo:     contractRepo,
		ContractLineRepo: contractLineRepo,
		TemplateRepo:     templateRepo,
		OrderRepo:        orderRepo,
		ProductRepo:      productRepo,
		PricelistRepo:    pricelistRepo,
	}
}
