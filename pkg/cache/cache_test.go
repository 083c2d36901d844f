package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, config Config) *Cache[string] {
	t.Helper()
	c, err := New[string](config)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// 测试基本的Set/Get/Delete操作
func TestCache_BasicOperations(t *testing.T) {
	c := newTestCache(t, Config{
		MaxSize:         100,
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: time.Minute,
	})

	ctx := context.Background()

	err := c.Set(ctx, "key1", "value1", DefaultExpiration)
	assert.NoError(t, err)

	value, found, err := c.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value1", value)

	// 不存在的键不是错误，返回零值和false
	value, found, err = c.Get(ctx, "nonexistent")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)

	removed, err := c.Delete(ctx, "key1")
	assert.NoError(t, err)
	assert.True(t, removed)

	// 重复删除返回false
	removed, err = c.Delete(ctx, "key1")
	assert.NoError(t, err)
	assert.False(t, removed)

	_, found, err = c.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.False(t, found)
}

// 测试覆盖写入不改变条目数
func TestCache_Overwrite(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 10})

	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", "old", DefaultExpiration))
	require.NoError(t, c.Set(ctx, "key1", "new", DefaultExpiration))

	assert.Equal(t, 1, c.Len())

	value, found, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", value)
}

// 测试配置校验
func TestCache_ConfigValidation(t *testing.T) {
	_, err := New[string](Config{MaxSize: 0})
	require.Error(t, err)
	var cacheErr *CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, ErrConfigInvalid, cacheErr.Code)

	_, err = New[string](Config{MaxSize: 10, DefaultTTL: -time.Second})
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, ErrConfigInvalid, cacheErr.Code)

	_, err = New[string](Config{MaxSize: 10, CleanupInterval: -time.Second})
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, ErrConfigInvalid, cacheErr.Code)
}

// 测试TTL惰性过期：过期条目绝不返回，并在Get时被删除
func TestCache_TTLExpiration(t *testing.T) {
	c := newTestCache(t, Config{
		MaxSize:         100,
		CleanupInterval: time.Hour, // 清理协程不参与，验证惰性路径
	})

	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", "value1", 50*time.Millisecond))

	before := c.Stats().Misses
	time.Sleep(100 * time.Millisecond)

	value, found, err := c.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
	assert.GreaterOrEqual(t, c.Stats().Misses, before+1)

	// 条目已在Get中被删除，entries与recency保持同步
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
}

// 测试默认TTL与NoExpiration
func TestCache_DefaultTTL(t *testing.T) {
	c := newTestCache(t, Config{
		MaxSize:         100,
		DefaultTTL:      50 * time.Millisecond,
		CleanupInterval: time.Hour,
	})

	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "default", "v", DefaultExpiration))
	require.NoError(t, c.Set(ctx, "forever", "v", NoExpiration))
	require.NoError(t, c.Set(ctx, "explicit", "v", time.Hour))

	time.Sleep(100 * time.Millisecond)

	_, found, _ := c.Get(ctx, "default")
	assert.False(t, found, "entry with default TTL should have expired")

	_, found, _ = c.Get(ctx, "forever")
	assert.True(t, found, "NoExpiration entry must not expire")

	_, found, _ = c.Get(ctx, "explicit")
	assert.True(t, found, "explicit TTL overrides default")
}

// 测试容量不变式：任何Set之后条目数不超过MaxSize
func TestCache_CapacityInvariant(t *testing.T) {
	maxSize := 5
	c := newTestCache(t, Config{MaxSize: maxSize})

	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("key%d", i), "v", DefaultExpiration))
		assert.LessOrEqual(t, c.Len(), maxSize)
	}

	stats := c.Stats()
	assert.Equal(t, int64(50), stats.Sets)
	assert.Equal(t, int64(45), stats.Evictions)
}

// 测试Clear清空内容但保留统计计数
func TestCache_ClearKeepsStats(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 100})

	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", "v", DefaultExpiration))
	require.NoError(t, c.Set(ctx, "key2", "v", DefaultExpiration))
	c.Get(ctx, "key1")

	setsBefore := c.Stats().Sets
	hitsBefore := c.Stats().Hits

	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, 0, c.Len())
	_, found, err := c.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, setsBefore, stats.Sets, "Clear must not reset counters")
	assert.Equal(t, hitsBefore, stats.Hits)
	assert.Equal(t, int64(0), stats.Size)
}

// 测试Close后的操作返回CACHE_CLOSED
func TestCache_Close(t *testing.T) {
	c, err := New[string](Config{MaxSize: 10, CleanupInterval: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "key1", "v", DefaultExpiration))

	require.NoError(t, c.Close())
	// Close是幂等的
	require.NoError(t, c.Close())

	err = c.Set(ctx, "key2", "v", DefaultExpiration)
	require.Error(t, err)
	var cacheErr *CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, ErrCacheClosed, cacheErr.Code)

	_, _, err = c.Get(ctx, "key1")
	assert.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, ErrCacheClosed, cacheErr.Code)
}

// 测试Keys按访问新旧排序
func TestCache_KeysOrder(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 10})

	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", DefaultExpiration))
	require.NoError(t, c.Set(ctx, "b", "2", DefaultExpiration))
	require.NoError(t, c.Set(ctx, "c", "3", DefaultExpiration))
	c.Get(ctx, "a")

	assert.Equal(t, []string{"a", "c", "b"}, c.Keys())
}

func BenchmarkCache_Set(b *testing.B) {
	c, err := New[string](Config{MaxSize: 10000})
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key%d", i)
		c.Set(ctx, key, "value", DefaultExpiration)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	c, err := New[string](Config{MaxSize: 10000})
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		c.Set(ctx, fmt.Sprintf("key%d", i), "value", DefaultExpiration)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, fmt.Sprintf("key%d", i%1000))
	}
}
