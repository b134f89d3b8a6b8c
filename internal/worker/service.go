package worker

import (
	"context"
	"errors"
	"time"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	categoryRefreshInterval = 4 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.ProductService != nil {
		go s.runCategoryRefreshLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

// runCategoryRefreshLoop 在缓存过期前刷新分类缓存
func (s *Service) runCategoryRefreshLoop(ctx context.Context) {
	runOnce := func() {
		if _, err := s.consumer.ProductService.RefreshCategories(ctx); err != nil {
			logger.Warnw("worker_category_refresh_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(categoryRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
