package queue

import (
	"encoding/json"

	"github.com/mercado-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskStoreProvision 卖家注册后开通店铺任务
	TaskStoreProvision = constants.TaskStoreProvision
)

// StoreProvisionPayload 开通店铺任务载荷
type StoreProvisionPayload struct {
	OwnerID     uint   `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewStoreProvisionTask 创建开通店铺任务
func NewStoreProvisionTask(payload StoreProvisionPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStoreProvision, body), nil
}

// ParseStoreProvisionPayload 解析开通店铺任务载荷
func ParseStoreProvisionPayload(task *asynq.Task) (StoreProvisionPayload, error) {
	var payload StoreProvisionPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
