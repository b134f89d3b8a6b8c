package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/provider"
	"github.com/mercado-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskStoreProvision, c.handleStoreProvision)
}

// handleStoreProvision 为新注册卖家开通店铺，重复投递不会产生第二家店铺
func (c *Consumer) handleStoreProvision(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_store_provision_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.Container == nil || c.StoreService == nil {
		return errors.New("store service unavailable")
	}
	payload, err := queue.ParseStoreProvisionPayload(task)
	if err != nil {
		logger.Warnw("worker_store_provision_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OwnerID == 0 || strings.TrimSpace(payload.Name) == "" {
		logger.Debugw("worker_store_provision_skip_invalid_payload",
			"owner_id", payload.OwnerID,
			"name", payload.Name,
		)
		return nil
	}

	store, err := c.StoreService.ProvisionSellerStore(ctx, payload.OwnerID, payload.Name, payload.Description)
	if err != nil {
		logger.Warnw("worker_store_provision_failed",
			"owner_id", payload.OwnerID,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_store_provisioned",
		"owner_id", payload.OwnerID,
		"store_id", store.ID,
	)
	return nil
}
