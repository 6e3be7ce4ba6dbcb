package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDashboardWarmup is the task type for pre-populating dashboard caches.
	TaskTypeDashboardWarmup = "dashboard:warmup"
)

// Warmup scopes. Admins is the cheap default; All also warms every
// operator's personal dashboard.
const (
	WarmupScopeAdmins = "admins"
	WarmupScopeAll    = "all"
)

// DashboardWarmupPayload selects which accounts get their dashboard warmed.
type DashboardWarmupPayload struct {
	Scope string `json:"scope"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDashboardWarmup, data), nil
}
