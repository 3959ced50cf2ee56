package testutil

import (
	"context"
	"time"

	"github.com/Ontinet-com/contract/internal/cache"
	"github.com/Ontinet-com/contract/internal/config"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/sentry"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the in-memory repositories for testing
type Stores struct {
	ContractRepo     *InMemoryContractStore
	ContractLineRepo *InMemoryContractLineStore
	TemplateRepo     *InMemoryContractTemplateStore
	OrderRepo        *InMemoryOrderStore
	ProductRepo      *InMemoryProductStore
	PricelistRepo    *InMemoryPricelistStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     *MockPostgresClient
	logger *logger.Logger
	config *config.Configuration
	clock  *FixedClock
	cache  cache.Cache
	sentry *sentry.Service
}

// DefaultTestNow is where the fixed clock starts for every test
var DefaultTestNow = time.Date(2020, 1, 15, 9, 0, 0, 0, time.UTC)

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.sentry = sentry.NewSentryService(cfg, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.clock = NewFixedClock(DefaultTestNow)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	lines := NewInMemoryContractLineStore()
	s.stores = Stores{
		ContractRepo:     NewInMemoryContractStore(lines),
		ContractLineRepo: lines,
		TemplateRepo:     NewInMemoryContractTemplateStore(),
		OrderRepo:        NewInMemoryOrderStore(),
		ProductRepo:      NewInMemoryProductStore(),
		PricelistRepo:    NewInMemoryPricelistStore(),
	}

	s.db = NewMockPostgresClient(s.logger,
		s.stores.ContractRepo,
		s.stores.ContractLineRepo,
		s.stores.TemplateRepo,
		s.stores.OrderRepo,
		s.stores.ProductRepo,
		s.stores.PricelistRepo,
	)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.ContractRepo.Clear()
	s.stores.ContractLineRepo.Clear()
	s.stores.TemplateRepo.Clear()
	s.stores.OrderRepo.Clear()
	s.stores.ProductRepo.Clear()
	s.stores.PricelistRepo.Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetClock returns the fixed test clock
func (s *BaseServiceTestSuite) GetClock() *FixedClock {
	return s.clock
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetSentry returns a disabled sentry service
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.clock.Now()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
