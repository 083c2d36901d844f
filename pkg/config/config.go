// Package config 提供基于 viper 的配置加载，支持配置文件和环境变量。
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"kvcache/pkg/cache"
	"kvcache/pkg/logger"
)

// Config 应用级配置，聚合缓存与日志设置
type Config struct {
	Cache  cache.Config  `json:"cache" yaml:"cache" mapstructure:"cache"`
	Logger logger.Config `json:"logger" yaml:"logger" mapstructure:"logger"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Cache: cache.DefaultConfig(),
		Logger: logger.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load 加载配置。path 为空时在当前目录和 ./config 下查找 kvcache.yaml，
// 找不到配置文件时使用默认值。环境变量前缀为 KVCACHE，
// 例如 KVCACHE_CACHE_MAX_SIZE 覆盖 cache.max_size。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("kvcache")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("KVCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	return c.Cache.Validate()
}

// setDefaults 注册所有配置项的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.max_size", 1024)
	v.SetDefault("cache.default_ttl", "0s")
	v.SetDefault("cache.cleanup_interval", "5s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
}
