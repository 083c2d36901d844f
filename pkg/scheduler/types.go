// Package scheduler 提供基于 cron 表达式的缓存维护任务调度，
// 支持定时清理过期条目、清空缓存和输出统计日志。
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"kvcache/pkg/cache"
)

// JobAction 维护动作类型
type JobAction string

const (
	// ActionPurge 清除目标缓存中的过期条目
	ActionPurge JobAction = "purge"
	// ActionClear 清空目标缓存
	ActionClear JobAction = "clear"
	// ActionReport 将目标缓存的统计信息写入日志
	ActionReport JobAction = "report"
)

// Maintainable 可被调度器维护的缓存目标
type Maintainable interface {
	PurgeExpired(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Stats() cache.Stats
}

// JobConfig 单个维护任务的配置
type JobConfig struct {
	Name     string    `yaml:"name" json:"name" mapstructure:"name"`
	Enabled  bool      `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Schedule string    `yaml:"schedule" json:"schedule" mapstructure:"schedule"` // cron 表达式，支持秒级调度
	Action   JobAction `yaml:"action" json:"action" mapstructure:"action"`
	Target   string    `yaml:"target" json:"target" mapstructure:"target"` // 已注册的缓存目标名称
}

// JobsConfig 维护任务配置文件结构
type JobsConfig struct {
	Jobs []JobConfig `yaml:"jobs" json:"jobs" mapstructure:"jobs"`
}

// JobStatus 任务状态
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running"
	JobStatusError    JobStatus = "error"
	JobStatusDisabled JobStatus = "disabled"
)

// Job 表示一个已注册的维护任务
type Job struct {
	ID         string
	Config     JobConfig
	EntryID    cron.EntryID
	Status     JobStatus
	LastRun    *time.Time
	NextRun    *time.Time
	RunCount   int64
	ErrorCount int64
	LastError  error
}
