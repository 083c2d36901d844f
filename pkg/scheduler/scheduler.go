package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"kvcache/pkg/logger"
)

// MaintenanceScheduler 缓存维护任务调度器
type MaintenanceScheduler struct {
	cron    *cron.Cron
	jobs    map[string]*Job
	targets map[string]Maintainable
	mu      sync.RWMutex
	log     *logrus.Entry
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler 创建维护任务调度器
func NewScheduler() *MaintenanceScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &MaintenanceScheduler{
		cron:    cron.New(cron.WithSeconds()),
		jobs:    make(map[string]*Job),
		targets: make(map[string]Maintainable),
		log:     logger.WithComponent("scheduler"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RegisterTarget 注册一个可被维护的缓存目标
func (s *MaintenanceScheduler) RegisterTarget(name string, target Maintainable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[name] = target
}

// LoadConfig 从配置文件加载维护任务
func (s *MaintenanceScheduler) LoadConfig(configPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var config JobsConfig
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, jobConfig := range config.Jobs {
		if err := s.validateJobConfig(jobConfig); err != nil {
			s.log.WithError(err).Warnf("skipping invalid job config: %s", jobConfig.Name)
			continue
		}

		if err := s.addJobInternal(jobConfig); err != nil {
			s.log.WithError(err).Errorf("failed to add job: %s", jobConfig.Name)
			continue
		}
	}

	s.log.Infof("loaded %d maintenance jobs", len(s.jobs))
	return nil
}

// Start 启动调度器
func (s *MaintenanceScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Start()
	s.updateNextRunTimes()
	s.log.Info("maintenance scheduler started")
}

// Stop 停止调度器并等待运行中的任务完成
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		s.log.Info("maintenance scheduler stopped")
	case <-time.After(30 * time.Second):
		s.log.Warn("maintenance scheduler stop timed out")
	}
}

// AddJob 添加维护任务
func (s *MaintenanceScheduler) AddJob(config JobConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateJobConfig(config); err != nil {
		return err
	}

	return s.addJobInternal(config)
}

// RemoveJob 移除维护任务
func (s *MaintenanceScheduler) RemoveJob(jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[jobName]
	if !exists {
		return fmt.Errorf("job does not exist: %s", jobName)
	}

	s.cron.Remove(job.EntryID)
	delete(s.jobs, jobName)

	s.log.Infof("job removed: %s", jobName)
	return nil
}

// GetJob 获取任务状态
func (s *MaintenanceScheduler) GetJob(jobName string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobName]
	if !exists {
		return nil, fmt.Errorf("job does not exist: %s", jobName)
	}

	// 返回副本避免并发修改
	jobCopy := *job
	return &jobCopy, nil
}

// Jobs 获取所有任务
func (s *MaintenanceScheduler) Jobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobCopy := *job
		jobs = append(jobs, &jobCopy)
	}

	return jobs
}

// RunJob 手动触发一次任务执行
func (s *MaintenanceScheduler) RunJob(jobName string) error {
	s.mu.RLock()
	job, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job does not exist: %s", jobName)
	}

	if !job.Config.Enabled {
		return fmt.Errorf("job is disabled: %s", jobName)
	}

	go s.executeJob(job)
	return nil
}

// validateJobConfig 验证任务配置
func (s *MaintenanceScheduler) validateJobConfig(config JobConfig) error {
	if config.Name == "" {
		return fmt.Errorf("job name cannot be empty")
	}

	if config.Schedule == "" {
		return fmt.Errorf("job schedule cannot be empty")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(config.Schedule); err != nil {
		return fmt.Errorf("invalid schedule expression '%s': %w", config.Schedule, err)
	}

	switch config.Action {
	case ActionPurge, ActionClear, ActionReport:
	default:
		return fmt.Errorf("unknown action: %s", config.Action)
	}

	if config.Target == "" {
		return fmt.Errorf("job target cannot be empty")
	}

	return nil
}

// addJobInternal 内部添加任务方法，需要持有锁
func (s *MaintenanceScheduler) addJobInternal(config JobConfig) error {
	if _, exists := s.jobs[config.Name]; exists {
		return fmt.Errorf("job already exists: %s", config.Name)
	}

	job := &Job{
		ID:     uuid.New().String(),
		Config: config,
		Status: JobStatusPending,
	}

	if !config.Enabled {
		job.Status = JobStatusDisabled
		s.jobs[config.Name] = job
		s.log.Infof("job added (disabled): %s", config.Name)
		return nil
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.executeJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}

	job.EntryID = entryID
	s.jobs[config.Name] = job

	s.log.Infof("job added: %s (schedule: %s)", config.Name, config.Schedule)
	return nil
}

// executeJob 执行维护任务
func (s *MaintenanceScheduler) executeJob(job *Job) {
	s.mu.Lock()
	if job.Status == JobStatusRunning {
		s.mu.Unlock()
		s.log.Warnf("job still running, skipping: %s", job.Config.Name)
		return
	}
	target, ok := s.targets[job.Config.Target]
	if !ok {
		s.mu.Unlock()
		s.log.Errorf("job target not registered: %s", job.Config.Target)
		return
	}
	job.Status = JobStatusRunning
	now := time.Now()
	job.LastRun = &now
	job.RunCount++
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	err := s.runAction(ctx, job.Config, target)

	s.mu.Lock()
	if err != nil {
		job.Status = JobStatusError
		job.LastError = err
		job.ErrorCount++
		s.log.WithError(err).Errorf("job failed: %s", job.Config.Name)
	} else {
		job.Status = JobStatusPending
		job.LastError = nil
	}
	s.mu.Unlock()
}

// runAction 对目标缓存执行具体的维护动作
func (s *MaintenanceScheduler) runAction(ctx context.Context, config JobConfig, target Maintainable) error {
	switch config.Action {
	case ActionPurge:
		removed, err := target.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		s.log.Infof("job %s purged %d expired entries from %s", config.Name, removed, config.Target)
		return nil
	case ActionClear:
		if err := target.Clear(ctx); err != nil {
			return err
		}
		s.log.Infof("job %s cleared cache %s", config.Name, config.Target)
		return nil
	case ActionReport:
		stats := target.Stats()
		s.log.WithFields(logrus.Fields{
			"target":    config.Target,
			"size":      stats.Size,
			"hits":      stats.Hits,
			"misses":    stats.Misses,
			"hit_rate":  stats.HitRate,
			"evictions": stats.Evictions,
		}).Info("cache stats report")
		return nil
	default:
		return fmt.Errorf("unknown action: %s", config.Action)
	}
}

// updateNextRunTimes 更新所有任务的下次运行时间，需要持有锁
func (s *MaintenanceScheduler) updateNextRunTimes() {
	entries := s.cron.Entries()
	for _, job := range s.jobs {
		if !job.Config.Enabled {
			continue
		}
		for _, entry := range entries {
			if entry.ID == job.EntryID {
				nextRun := entry.Next
				job.NextRun = &nextRun
				break
			}
		}
	}
}
