package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Ontinet-com/contract/internal/api"
	"github.com/Ontinet-com/contract/internal/api/cron"
	v1 "github.com/Ontinet-com/contract/internal/api/v1"
	"github.com/Ontinet-com/contract/internal/cache"
	"github.com/Ontinet-com/contract/internal/clock"
	"github.com/Ontinet-com/contract/internal/config"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/repository"
	"github.com/Ontinet-com/contract/internal/scheduler"
	"github.com/Ontinet-com/contract/internal/sentry"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Contract API
// @version 1.0
// @description Recurring contracts and the sale and purchase orders they generate
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Clock
			clock.NewRealClock,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			provideDBClient,

			// Repositories
			repository.NewContractRepository,
			repository.NewContractLineRepository,
			repository.NewContractTemplateRepository,
			repository.NewOrderRepository,
			repository.NewProductRepository,
			repository.NewPricelistRepository,
		),
		sentry.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewContractService,
			service.NewContractTemplateService,
			service.NewGenerationService,
			service.NewOrderService,
			service.NewProductService,
			service.NewPricelistService,
		),
	)

	// API and scheduler
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
			provideScheduler,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideDBClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	db *postgres.DB,
	clk clock.Clock,
	logger *logger.Logger,
	contractService service.ContractService,
	templateService service.ContractTemplateService,
	generationService service.GenerationService,
	orderService service.OrderService,
	productService service.ProductService,
	pricelistService service.PricelistService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(db, logger),
		Contract:     v1.NewContractHandler(contractService, generationService, logger),
		Template:     v1.NewContractTemplateHandler(templateService, logger),
		Product:      v1.NewProductHandler(productService, logger),
		Pricelist:    v1.NewPricelistHandler(pricelistService, logger),
		Order:        v1.NewOrderHandler(orderService, logger),
		CronContract: cron.NewContractHandler(generationService, clk, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func provideScheduler(
	cfg *config.Configuration,
	generationService service.GenerationService,
	clk clock.Clock,
	sentrySvc *sentry.Service,
	logger *logger.Logger,
) (*scheduler.Scheduler, error) {
	s := scheduler.New(logger)
	job := scheduler.NewGenerationJob(cfg, generationService, clk, sentrySvc, logger)
	if err := s.Register(job); err != nil {
		return nil, err
	}
	return s, nil
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	db *postgres.DB,
	r *gin.Engine,
	s *scheduler.Scheduler,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startScheduler(lc, s, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeScheduler:
		startScheduler(lc, s, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func startScheduler(
	lc fx.Lifecycle,
	s *scheduler.Scheduler,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	if !cfg.Contract.SchedulerEnabled {
		log.Info("Contract generation scheduler is disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// the start context ends with the start phase, so the loops get their own
			return s.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
