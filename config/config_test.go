package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-for-unit-testing\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Dashboard.CacheTTL != 300*time.Second {
		t.Errorf("期望 cache_ttl=300s，实际=%v", cfg.Dashboard.CacheTTL)
	}
	if cfg.Dashboard.CacheDriver != "memory" {
		t.Errorf("期望 cache_driver=memory，实际=%s", cfg.Dashboard.CacheDriver)
	}
	if cfg.Dashboard.CacheVersion != 3 {
		t.Errorf("期望 cache_version=3，实际=%d", cfg.Dashboard.CacheVersion)
	}
	if cfg.Mongo.MaxPoolSize != 10 {
		t.Errorf("期望 max_pool_size=10，实际=%d", cfg.Mongo.MaxPoolSize)
	}
	if cfg.Mongo.ServerSelectionTimeout != 5*time.Second {
		t.Errorf("期望 server_selection_timeout=5s，实际=%v", cfg.Mongo.ServerSelectionTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-for-unit-testing\ndashboard:\n  cache_driver: memory\n")
	t.Setenv("UNIDASH_DASHBOARD_CACHE_DRIVER", "redis")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Dashboard.CacheDriver != "redis" {
		t.Errorf("期望环境变量覆盖 cache_driver=redis，实际=%s", cfg.Dashboard.CacheDriver)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	if _, err := Load(path); err == nil {
		t.Error("缺少 jwt_secret 应返回错误")
	}
}

func TestValidate_BadCacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Dashboard.CacheDriver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Error("不支持的 cache_driver 应返回错误")
	}
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Dashboard.CacheTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("cache_ttl=0 应返回错误")
	}
}

func TestDashboardConfig_Location(t *testing.T) {
	c := &DashboardConfig{Timezone: "UTC"}
	if c.Location() != time.UTC {
		t.Errorf("期望 UTC，实际=%s", c.Location())
	}
	c.Timezone = "Not/AZone"
	if c.Location() != time.Local {
		t.Error("非法时区应回退为 time.Local")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "university"},
		Auth:   AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
		Dashboard: DashboardConfig{
			CacheDriver:       "memory",
			CacheTTL:          300 * time.Second,
			AnnouncementLimit: 4,
			ActivityLimit:     10,
			ClassSampleLimit:  10,
		},
	}
}
