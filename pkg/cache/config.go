package cache

import (
	"time"
)

const (
	// DefaultExpiration 让 Set 使用配置中的 DefaultTTL。
	DefaultExpiration time.Duration = 0
	// NoExpiration 显式指定条目永不过期，即使配置了 DefaultTTL。
	NoExpiration time.Duration = -1

	// DefaultCleanupInterval 未配置清理间隔时的默认值
	DefaultCleanupInterval = 5 * time.Second
)

// Config 缓存配置，构造后不可变
type Config struct {
	MaxSize         int           `json:"max_size" yaml:"max_size" mapstructure:"max_size"`                         // 缓存中最多保留的条目数，必须为正数
	DefaultTTL      time.Duration `json:"default_ttl" yaml:"default_ttl" mapstructure:"default_ttl"`                // 条目的默认生存时间，0 表示永不过期
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval" mapstructure:"cleanup_interval"` // 后台清理过期条目的时间间隔，0 表示使用默认值
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxSize:         1024,
		DefaultTTL:      0,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return NewCacheError(ErrConfigInvalid, "max_size must be positive")
	}
	if c.DefaultTTL < 0 {
		return NewCacheError(ErrConfigInvalid, "default_ttl cannot be negative")
	}
	if c.CleanupInterval < 0 {
		return NewCacheError(ErrConfigInvalid, "cleanup_interval cannot be negative")
	}
	return nil
}

// withDefaults 填充未设置的可选项
func (c Config) withDefaults() Config {
	if c.CleanupInterval == 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	return c
}
