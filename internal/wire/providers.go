// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"deck-import-api/internal/application/importer"
	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/config"
	"deck-import-api/internal/domain/repository"
	"deck-import-api/internal/infrastructure/assets"
	"deck-import-api/internal/infrastructure/catalog"
	"deck-import-api/internal/infrastructure/export"
	"deck-import-api/internal/infrastructure/persistence/postgres"
	"deck-import-api/internal/infrastructure/persistence/redis"
	"deck-import-api/internal/interfaces/http/handler"
	"deck-import-api/internal/interfaces/http/middleware"
	"deck-import-api/internal/interfaces/http/router"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient         *postgres.Client
	TxManager        *postgres.TxManager
	PresentationRepo *postgres.PresentationRepository

	// Redis
	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewPresentationRepository,
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// CatalogSet 模板目录提供者集合
var CatalogSet = wire.NewSet(
	ProvideCatalog,
	layout.NewResolver,
)

// ImporterSet 导入流水线提供者集合
var ImporterSet = wire.NewSet(
	ProvideValidator,
	ProvideAssetResolver,
	ProvideRenderer,
	ProvideOrchestrator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewImportHandler,
	handler.NewPresentationHandler,
	handler.NewTemplateHandler,
	router.New,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.PresentationRepository), new(*postgres.PresentationRepository)),
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideCatalog 按配置选择模板目录来源，统一套上 Redis 缓存
func ProvideCatalog(cfg *config.Config, cache *redis.Cache) layout.Catalog {
	var inner layout.Catalog
	switch cfg.Catalog.Source {
	case "http":
		inner = catalog.NewHTTPCatalog(&cfg.Catalog)
	default:
		inner = catalog.NewBuiltin()
	}
	return catalog.NewCached(inner, cache, cfg.Catalog.CacheTTL)
}

// ProvideValidator 提供内容校验器
func ProvideValidator(cfg *config.Config) *importer.Validator {
	policy := importer.PolicyDrop
	if cfg.Importer.UnknownFieldPolicy == "reject" {
		policy = importer.PolicyReject
	}
	return importer.NewValidator(policy)
}

// ProvideAssetResolver 提供素材解析器
func ProvideAssetResolver(cfg *config.Config) *importer.AssetResolver {
	return importer.NewAssetResolver(
		assets.NewImageClient(&cfg.Assets.Image),
		assets.NewIconClient(&cfg.Assets.Icon),
		importer.AssetResolverOptions{
			MaxConcurrent:   cfg.Importer.MaxConcurrentResolutions,
			Timeout:         cfg.Importer.ResolutionTimeout,
			PlaceholderURL:  cfg.Assets.Image.PlaceholderURL,
			FallbackIconURL: cfg.Assets.Icon.FallbackIcon,
		},
	)
}

// ProvideRenderer 提供导出渲染客户端
func ProvideRenderer(cfg *config.Config) importer.Renderer {
	return export.NewRendererClient(&cfg.Export)
}

// ProvideOrchestrator 提供导入编排器
func ProvideOrchestrator(
	resolver *layout.Resolver,
	validator *importer.Validator,
	assetResolver *importer.AssetResolver,
	repo repository.PresentationRepository,
	renderer importer.Renderer,
	cfg *config.Config,
) *importer.Orchestrator {
	return importer.NewOrchestrator(resolver, validator, assetResolver, repo, renderer, importer.Options{
		MaxSlides:   cfg.Importer.MaxSlides,
		EditURLBase: cfg.Export.EditURLBase,
	})
}
