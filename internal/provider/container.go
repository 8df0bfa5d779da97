package provider

import (
	"time"

	"github.com/stockflow/internal/cache"
	"github.com/stockflow/internal/config"
	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/metrics"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/queue"
	"github.com/stockflow/internal/repository"
	"github.com/stockflow/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Bus         *events.Bus
	Metrics     *metrics.Collector
	ReportCache *cache.ReportCache
	QueueClient *queue.Client

	// Repositories
	BrandRepo    repository.BrandRepository
	ItemRepo     repository.ItemRepository
	PurchaseRepo repository.PurchaseRepository
	ActivityRepo repository.ActivityRepository
	ReportRepo   repository.ReportRepository

	// Services
	BrandService    *service.BrandService
	ItemService     *service.ItemService
	PurchaseService *service.PurchaseService
	ActivityService *service.ActivityService
	ReportService   *service.ReportService

	detach []func()
}

// NewContainer 基于全局数据库连接创建容器
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 基于指定数据库连接创建容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := &Container{
		Config:      cfg,
		DB:          db,
		Bus:         events.NewBus(),
		Metrics:     metrics.New(),
		ReportCache: cache.NewReportCache(time.Duration(cfg.Report.CacheTTLSeconds) * time.Second),
		QueueClient: queue.NewClient(&cfg.Queue),
	}
	c.initRepositories()
	c.initServices()
	c.initSubscribers()
	return c
}

func (c *Container) initRepositories() {
	c.BrandRepo = repository.NewBrandRepository(c.DB)
	c.ItemRepo = repository.NewItemRepository(c.DB)
	c.PurchaseRepo = repository.NewPurchaseRepository(c.DB)
	c.ActivityRepo = repository.NewActivityRepository(c.DB)
	c.ReportRepo = repository.NewReportRepository(c.DB)
}

func (c *Container) initServices() {
	c.BrandService = service.NewBrandService(c.BrandRepo, c.Bus)
	c.ItemService = service.NewItemService(c.BrandRepo, c.ItemRepo, c.Bus)
	c.PurchaseService = service.NewPurchaseService(c.BrandRepo, c.ItemRepo, c.PurchaseRepo, c.Bus)
	c.ActivityService = service.NewActivityService(c.BrandRepo, c.ItemRepo, c.ActivityRepo, c.Bus)
	c.ReportService = service.NewReportService(c.BrandRepo, c.ActivityRepo, c.ReportRepo, c.ReportCache, c.Metrics)
}

// initSubscribers 报表缓存失效、指标统计、Redis 广播与报表预热订阅变更事件
func (c *Container) initSubscribers() {
	c.detach = append(c.detach,
		c.ReportCache.Attach(c.Bus),
		c.Metrics.AttachEvents(c.Bus),
		cache.AttachEventForwarder(c.Bus, c.Config.Redis.EventChannel),
	)
	if c.QueueClient.Enabled() {
		c.detach = append(c.detach, queue.AttachReportWarmer(c.Bus, c.QueueClient))
	}
	c.detach = append(c.detach, c.Bus.SubscribeAll(logChange))
}

// Close 取消事件订阅并关闭队列客户端
func (c *Container) Close() {
	for _, detach := range c.detach {
		detach()
	}
	c.detach = nil
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("queue_client_close_failed", "error", err)
	}
}
