package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试默认配置
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1024, cfg.Cache.MaxSize)
	assert.Equal(t, time.Duration(0), cfg.Cache.DefaultTTL)
	assert.Equal(t, 5*time.Second, cfg.Cache.CleanupInterval)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)

	assert.NoError(t, cfg.Validate())
}

// 测试没有配置文件时Load回退到默认值
func TestLoad_NoFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Cache.MaxSize)
	assert.Equal(t, 5*time.Second, cfg.Cache.CleanupInterval)
}

// 测试从YAML文件加载配置
func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvcache.yaml")

	content := `
cache:
  max_size: 500
  default_ttl: 2m
  cleanup_interval: 30s
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Cache.MaxSize)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.CleanupInterval)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

// 测试文件中未出现的配置项使用默认值
func TestLoad_PartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvcache.yaml")

	content := `
cache:
  max_size: 64
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Cache.MaxSize)
	assert.Equal(t, 5*time.Second, cfg.Cache.CleanupInterval)
	assert.Equal(t, "info", cfg.Logger.Level)
}

// 测试非法配置被拒绝
func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvcache.yaml")

	content := `
cache:
  max_size: -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

// 测试指定的配置文件不存在时报错
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
