package repository

import (
	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/domain/order"
	"github.com/Ontinet-com/contract/internal/domain/pricelist"
	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	postgresRepo "github.com/Ontinet-com/contract/internal/repository/postgres"
)

func NewContractRepository(db *postgres.DB, logger *logger.Logger) contract.Repository {
	return postgresRepo.NewContractRepository(db, logger)
}

func NewContractLineRepository(db *postgres.DB, logger *logger.Logger) contract.LineRepository {
	return postgresRepo.NewContractLineRepository(db, logger)
}

func NewContractTemplateRepository(db *postgres.DB, logger *logger.Logger) contract.TemplateRepository {
	return postgresRepo.NewContractTemplateRepository(db, logger)
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return postgresRepo.NewOrderRepository(db, logger)
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return postgresRepo.NewProductRepository(db, logger)
}

func NewPricelistRepository(db *postgres.DB, logger *logger.Logger) pricelist.Repository {
	return postgresRepo.NewPricelistRepository(db, logger)
}
