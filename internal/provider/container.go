package provider

import (
	"github.com/mercado-next/internal/authz"
	"github.com/mercado-next/internal/cache"
	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/queue"
	"github.com/mercado-next/internal/repository"
	"github.com/mercado-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	SessionHub  *service.SessionHub

	// Repositories
	UserRepo    repository.UserRepository
	StoreRepo   repository.StoreRepository
	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	CartRepo    repository.CartRepository

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	ProductService  *service.ProductService
	StoreService    *service.StoreService
	CartService     *service.CartService

	unsubscribers []func()
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		SessionHub:  service.NewSessionHub(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	// 3. 会话事件订阅
	c.initSessionSubscribers()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.StoreRepo = repository.NewStoreRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.StoreService = service.NewStoreService(c.StoreRepo, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ReviewRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.Config.Cart)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.StoreService, c.QueueClient, c.SessionHub)
}

func (c *Container) initSessionSubscribers() {
	c.unsubscribers = append(c.unsubscribers,
		c.SessionHub.Subscribe(service.AuthStateCacheSubscriber),
		c.SessionHub.Subscribe(service.SessionLogSubscriber),
	)
}

// Close 释放容器持有的资源（进程退出时调用）
func (c *Container) Close() {
	if c == nil {
		return
	}
	for _, unsubscribe := range c.unsubscribers {
		unsubscribe()
	}
	c.unsubscribers = nil
	c.SessionHub.Close()
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
