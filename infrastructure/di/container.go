package di

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/domain/repository"
	"github.com/ca-srg/tzbridge/infrastructure/config"
	"github.com/ca-srg/tzbridge/infrastructure/logging"
	infraRepo "github.com/ca-srg/tzbridge/infrastructure/repository"
	"github.com/ca-srg/tzbridge/infrastructure/service"
	"github.com/ca-srg/tzbridge/interface/cli"
	"github.com/ca-srg/tzbridge/interface/controller"
	"github.com/ca-srg/tzbridge/interface/presenter"
	"github.com/ca-srg/tzbridge/usecase/impl"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	metricsRepo repository.MetricsRepository

	// Services
	timezoneService repository.TimezoneService
	clock           repository.Clock

	// Use Cases
	converterService usecase.ConverterService
	metricsService   usecase.MetricsService
	statusService    usecase.StatusService

	// Presenters
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter

	// Controllers
	cliController  *cli.CLIController
	httpController *controller.HTTPController
	mcpController  *controller.MCPController

	// Logging
	loggerFactory domain.LoggerFactory
	logger        domain.Logger

	// Options
	debugLogging bool
	configPath   string
	cliOnly      bool
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugLogging forces debug logging regardless of configuration
func WithDebugLogging(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugLogging = debug
	}
}

// WithConfigPath overrides the config file location
func WithConfigPath(path string) ContainerOption {
	return func(c *Container) {
		c.configPath = path
	}
}

// WithClock injects a clock, used by tests to pin the current time
func WithClock(clock repository.Clock) ContainerOption {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	// Apply options
	for _, opt := range opts {
		opt(container)
	}

	// Load configuration
	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logging
	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Initialize repositories
	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize domain services
	if err := container.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	// Initialize use cases
	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	// Initialize presenters
	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	// Initialize controllers
	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return container, nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	// Create config repository unless the builder seeded one
	if c.configRepo == nil {
		repo := infraRepo.NewJSONConfigRepository()
		if c.configPath != "" {
			if jsonRepo, ok := repo.(*infraRepo.JSONConfigRepository); ok {
				jsonRepo.SetConfigDir(filepath.Dir(c.configPath))
				jsonRepo.SetConfigFile(c.configPath)
			}
		}
		c.configRepo = repo
	}

	// Create temporary NoOpLogger for initial configuration loading
	tempLogger := &logging.NoOpLogger{}

	// Create config service with temporary logger
	configService, err := impl.NewConfigService(c.configRepo, tempLogger)
	if err != nil {
		// ConfigServiceがないとシステムが動作しないので、エラーを返す
		c.config = config.DefaultConfig()
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	// Ensure config file exists (create template if needed)
	if err := configService.EnsureConfigExists(); err != nil {
		// エラーメッセージを標準エラー出力に表示
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
		// デフォルト設定で継続
	}

	// Get configuration from service (with fallback to defaults)
	cfg := configService.GetConfig()

	// Override debug logging if set via command line
	if c.debugLogging {
		if cfg.Logging == nil {
			cfg.Logging = &config.LoggingConfig{
				Level: "debug",
				Debug: true,
				Promtail: &config.PromtailConfig{
					URL:              "",
					BatchWaitSeconds: 1,
					BatchCapacity:    100,
					TimeoutSeconds:   5,
				},
			}
		} else {
			cfg.Logging.Debug = true
		}
	}

	c.config = cfg
	return nil
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	// Ensure logging configuration exists
	if c.config.Logging == nil {
		c.config.Logging = &config.LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &config.PromtailConfig{
				URL:              "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		}
	}

	// Create logger factory
	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)

	// Create main logger for the container
	c.logger = c.loggerFactory.CreateLogger("tzbridge")

	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	if c.metricsRepo != nil {
		return nil
	}

	// Pushing needs a remote write endpoint; otherwise counters still
	// accumulate against the no-op repository without network traffic
	if !c.cliOnly && c.config.Prometheus != nil && c.config.Prometheus.RemoteWriteURL != "" {
		metricsRepo, err := infraRepo.NewPrometheusMetricsRepository(c.config.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to create metrics repository: %w", err)
		}
		c.metricsRepo = metricsRepo
	} else {
		c.metricsRepo = infraRepo.NewNoOpMetricsRepository()
	}

	return nil
}

// initDomainServices initializes domain services
func (c *Container) initDomainServices() error {
	// Initialize timezone service
	c.timezoneService = service.NewTimezoneServiceImpl(c.config, c.logger)

	// Default to the system clock unless a test injected one
	if c.clock == nil {
		c.clock = service.NewSystemClock()
	}

	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	// Initialize status service
	c.statusService = impl.NewStatusService()

	// Initialize converter service
	c.converterService = impl.NewConverterServiceImpl(c.timezoneService, c.clock)

	// Initialize metrics service
	c.metricsService = impl.NewMetricsServiceImpl(
		c.metricsRepo,
		c.statusService,
		c.config.Prometheus,
		c.CreateLogger("metrics"),
	)

	return nil
}

// initPresenters initializes presenter implementations
func (c *Container) initPresenters() error {
	c.consolePresenter = presenter.NewConsolePresenter()
	c.jsonPresenter = presenter.NewJSONPresenter()
	return nil
}

// initControllers initializes controller implementations
func (c *Container) initControllers() error {
	c.cliController = cli.NewCLIController(
		c.converterService,
		c.consolePresenter,
		c.jsonPresenter,
	)

	// The CLI one-shot path never serves HTTP or MCP
	if c.cliOnly {
		return nil
	}

	// Ensure server configuration exists
	if c.config.Server == nil {
		c.config.Server = &config.ServerConfig{
			Host:               "",
			Port:               8080,
			CORSOrigins:        []string{"*"},
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 5,
		}
	}

	c.httpController = controller.NewHTTPController(
		c.config.Server,
		c.converterService,
		c.metricsService,
		c.statusService,
		c.CreateLogger("http"),
	)

	c.mcpController = controller.NewMCPController(
		c.converterService,
		c.metricsService,
		c.CreateLogger("mcp"),
	)

	return nil
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigRepository returns the config repository
func (c *Container) GetConfigRepository() repository.ConfigRepository {
	return c.configRepo
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetMetricsRepository returns the metrics repository
func (c *Container) GetMetricsRepository() repository.MetricsRepository {
	return c.metricsRepo
}

// GetTimezoneService returns the timezone service
func (c *Container) GetTimezoneService() repository.TimezoneService {
	return c.timezoneService
}

// GetClock returns the process clock
func (c *Container) GetClock() repository.Clock {
	return c.clock
}

// GetConverterService returns the converter service
func (c *Container) GetConverterService() usecase.ConverterService {
	return c.converterService
}

// GetMetricsService returns the metrics service
func (c *Container) GetMetricsService() usecase.MetricsService {
	return c.metricsService
}

// GetStatusService returns the status service
func (c *Container) GetStatusService() usecase.StatusService {
	return c.statusService
}

// GetConsolePresenter returns the console presenter
func (c *Container) GetConsolePresenter() presenter.ConsolePresenter {
	return c.consolePresenter
}

// GetJSONPresenter returns the JSON presenter
func (c *Container) GetJSONPresenter() presenter.JSONPresenter {
	return c.jsonPresenter
}

// GetCLIController returns the CLI controller
func (c *Container) GetCLIController() *cli.CLIController {
	return c.cliController
}

// GetHTTPController returns the HTTP controller
func (c *Container) GetHTTPController() *controller.HTTPController {
	return c.httpController
}

// GetMCPController returns the MCP controller
func (c *Container) GetMCPController() *controller.MCPController {
	return c.mcpController
}

// GetLoggerFactory returns the logger factory
func (c *Container) GetLoggerFactory() domain.LoggerFactory {
	return c.loggerFactory
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a new logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	return c.loggerFactory.CreateLogger(component)
}

// CloseLogger flushes and closes the log transport on teardown
func (c *Container) CloseLogger() {
	if closer, ok := c.loggerFactory.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// Builder pattern for custom container configuration

// ContainerBuilder builds a custom container
type ContainerBuilder struct {
	config       *config.AppConfig
	configRepo   repository.ConfigRepository
	metricsRepo  repository.MetricsRepository
	clock        repository.Clock
	configPath   string
	debugLogging bool
	cliOnly      bool
}

// NewContainerBuilder creates a new container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{}
}

// WithConfig sets a custom configuration
func (b *ContainerBuilder) WithConfig(cfg *config.AppConfig) *ContainerBuilder {
	b.config = cfg
	return b
}

// WithConfigRepository sets a custom config repository
func (b *ContainerBuilder) WithConfigRepository(repo repository.ConfigRepository) *ContainerBuilder {
	b.configRepo = repo
	return b
}

// WithMetricsRepository sets a custom metrics repository
func (b *ContainerBuilder) WithMetricsRepository(repo repository.MetricsRepository) *ContainerBuilder {
	b.metricsRepo = repo
	return b
}

// WithClock sets a custom clock
func (b *ContainerBuilder) WithClock(clock repository.Clock) *ContainerBuilder {
	b.clock = clock
	return b
}

// WithConfigPath overrides the config file location
func (b *ContainerBuilder) WithConfigPath(path string) *ContainerBuilder {
	b.configPath = path
	return b
}

// WithDebugLogging forces debug logging
func (b *ContainerBuilder) WithDebugLogging(debug bool) *ContainerBuilder {
	b.debugLogging = debug
	return b
}

// CLIOnly restricts the container to the one-shot CLI path: no metrics
// push and no HTTP or MCP controllers
func (b *ContainerBuilder) CLIOnly() *ContainerBuilder {
	b.cliOnly = true
	return b
}

// Build builds the container with custom components
func (b *ContainerBuilder) Build() (*Container, error) {
	container := &Container{
		configRepo:   b.configRepo,
		metricsRepo:  b.metricsRepo,
		clock:        b.clock,
		configPath:   b.configPath,
		debugLogging: b.debugLogging,
		cliOnly:      b.cliOnly,
	}

	// A seeded config skips the load; otherwise run the fallback chain
	if b.config != nil {
		if container.configRepo == nil {
			container.configRepo = infraRepo.NewJSONConfigRepository()
		}
		configService, err := impl.NewConfigService(container.configRepo, &logging.NoOpLogger{})
		if err != nil {
			return nil, fmt.Errorf("failed to create config service: %w", err)
		}
		container.configService = configService
		container.config = b.config
	} else {
		if err := container.initConfig(); err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	}

	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := container.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return container, nil
}

// ServiceLocator provides a global access point to services (use with caution)
var defaultContainer *Container

// InitializeDefault initializes the default container
func InitializeDefault() error {
	container, err := NewContainer()
	if err != nil {
		return err
	}
	defaultContainer = container
	return nil
}

// GetDefaultContainer returns the default container
func GetDefaultContainer() (*Container, error) {
	if defaultContainer == nil {
		if err := InitializeDefault(); err != nil {
			return nil, err
		}
	}
	return defaultContainer, nil
}
