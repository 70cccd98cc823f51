package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// MongoConfig 文档库连接配置
type MongoConfig struct {
	URI                    string        `mapstructure:"uri"`
	Database               string        `mapstructure:"database"`
	MaxPoolSize            uint64        `mapstructure:"max_pool_size"`
	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`
	SocketTimeout          time.Duration `mapstructure:"socket_timeout"`
	MaxConnIdleTime        time.Duration `mapstructure:"max_conn_idle_time"`
	QueryTimeout           time.Duration `mapstructure:"query_timeout"` // 单次查询超时
}

// RedisConfig Redis 配置（可选：缓存后端、Token 黑名单、限流）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 校验配置（Token 由外部认证服务签发）
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DashboardConfig 仪表盘统计配置
type DashboardConfig struct {
	CacheDriver       string        `mapstructure:"cache_driver"` // memory | redis
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	CacheVersion      int           `mapstructure:"cache_version"` // 缓存键中的 schema 版本
	AnnouncementLimit int           `mapstructure:"announcement_limit"`
	ActivityLimit     int           `mapstructure:"activity_limit"`
	ClassSampleLimit  int           `mapstructure:"class_sample_limit"`
	Timezone          string        `mapstructure:"timezone"`
	RateLimit         int           `mapstructure:"rate_limit"` // 每 IP 每分钟请求数，0 表示不限流
}

// Location 解析仪表盘使用的时区，非法值回退为本地时区
func (c *DashboardConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("UNIDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "university")
	v.SetDefault("mongo.max_pool_size", 10)
	v.SetDefault("mongo.server_selection_timeout", "5s")
	v.SetDefault("mongo.socket_timeout", "45s")
	v.SetDefault("mongo.max_conn_idle_time", "30s")
	v.SetDefault("mongo.query_timeout", "10s")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.issuer", "unidash")
	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("dashboard.cache_driver", "memory")
	v.SetDefault("dashboard.cache_ttl", "300s")
	v.SetDefault("dashboard.cache_version", 3)
	v.SetDefault("dashboard.announcement_limit", 4)
	v.SetDefault("dashboard.activity_limit", 10)
	v.SetDefault("dashboard.class_sample_limit", 10)
	v.SetDefault("dashboard.timezone", "Local")
	v.SetDefault("dashboard.rate_limit", 60)
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return fmt.Errorf("配置校验失败: mongo.uri 与 mongo.database 不能为空")
	}
	switch c.Dashboard.CacheDriver {
	case "memory", "redis":
	default:
		return fmt.Errorf("配置校验失败: dashboard.cache_driver 仅支持 memory / redis")
	}
	if c.Dashboard.CacheTTL <= 0 {
		return fmt.Errorf("配置校验失败: dashboard.cache_ttl 必须大于 0")
	}
	if c.Dashboard.AnnouncementLimit <= 0 || c.Dashboard.ActivityLimit <= 0 || c.Dashboard.ClassSampleLimit <= 0 {
		return fmt.Errorf("配置校验失败: dashboard 列表上限必须大于 0")
	}
	return nil
}
