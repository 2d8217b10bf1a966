package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/domain/entity"
	"deck-import-api/internal/infrastructure/persistence/redis"
	"deck-import-api/pkg/logger"
	"deck-import-api/pkg/metrics"
)

// errTemplateNotInstalled 区分目录故障与模板缺失的内部哨兵，未安装不写缓存
var errTemplateNotInstalled = fmt.Errorf("template not installed")

// Cached 带 Redis 读穿缓存的目录装饰器
type Cached struct {
	inner layout.Catalog
	cache *redis.Cache
	ttl   time.Duration
}

// NewCached 创建缓存目录
func NewCached(inner layout.Catalog, cache *redis.Cache, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cached{inner: inner, cache: cache, ttl: ttl}
}

// Template 优先从缓存读取模板 Schema，未命中时回源并回填
func (c *Cached) Template(ctx context.Context, name string) (*entity.TemplateSchema, error) {
	key := "template:" + name

	missed := false
	data, err := c.cache.GetOrLoadSafe(ctx, key, c.ttl, func() (interface{}, error) {
		missed = true
		schema, err := c.inner.Template(ctx, name)
		if err != nil {
			return nil, err
		}
		if schema == nil {
			return nil, errTemplateNotInstalled
		}
		return schema, nil
	})
	if missed {
		metrics.CatalogCacheMisses.Inc()
	} else {
		metrics.CatalogCacheHits.Inc()
	}

	if err != nil {
		if err == errTemplateNotInstalled {
			return nil, nil
		}
		// 缓存层故障时降级为直接回源
		logger.Warn(ctx, "template cache unavailable, falling back to catalog", "template", name, "error", err.Error())
		return c.inner.Template(ctx, name)
	}

	var schema entity.TemplateSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		logger.Warn(ctx, "corrupt template cache entry, falling back to catalog", "template", name, "error", err.Error())
		return c.inner.Template(ctx, name)
	}
	return &schema, nil
}

// Templates 列表直接回源，不走缓存
func (c *Cached) Templates(ctx context.Context) ([]*entity.TemplateSchema, error) {
	return c.inner.Templates(ctx)
}
