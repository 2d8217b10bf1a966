// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Catalog       CatalogConfig       `yaml:"catalog" mapstructure:"catalog"`
	Assets        AssetsConfig        `yaml:"assets" mapstructure:"assets"`
	Importer      ImporterConfig      `yaml:"importer" mapstructure:"importer"`
	Export        ExportConfig        `yaml:"export" mapstructure:"export"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// CatalogConfig 模板目录配置
type CatalogConfig struct {
	// Source 目录来源：builtin（内置模板）或 http（模板前端服务）
	Source string `yaml:"source" mapstructure:"source"`
	// BaseURL 模板前端服务地址（source=http 时生效）
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout 目录请求超时
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// CacheTTL 模板 Schema 缓存时长
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// AssetsConfig 素材服务配置
type AssetsConfig struct {
	Image ImageServiceConfig `yaml:"image" mapstructure:"image"`
	Icon  IconServiceConfig  `yaml:"icon" mapstructure:"icon"`
}

// ImageServiceConfig 图片生成服务配置
type ImageServiceConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	PlaceholderURL string        `yaml:"placeholder_url" mapstructure:"placeholder_url"`
}

// IconServiceConfig 图标检索服务配置
type IconServiceConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	FallbackIcon string        `yaml:"fallback_icon" mapstructure:"fallback_icon"`
}

// ImporterConfig 导入流水线配置
type ImporterConfig struct {
	// MaxSlides 单次导入允许的最大幻灯片数
	MaxSlides int `yaml:"max_slides" mapstructure:"max_slides"`
	// MaxConcurrentResolutions 素材指令并发解析上限
	MaxConcurrentResolutions int `yaml:"max_concurrent_resolutions" mapstructure:"max_concurrent_resolutions"`
	// ResolutionTimeout 单条素材指令解析超时
	ResolutionTimeout time.Duration `yaml:"resolution_timeout" mapstructure:"resolution_timeout"`
	// UnknownFieldPolicy 未声明字段处理策略：drop（丢弃）或 reject（拒绝）
	UnknownFieldPolicy string `yaml:"unknown_field_policy" mapstructure:"unknown_field_policy"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	// BaseURL 渲染服务地址
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout 渲染请求超时
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// EditURLBase 编辑页地址模板，%s 替换为 presentation id
	EditURLBase string `yaml:"edit_url_base" mapstructure:"edit_url_base"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
