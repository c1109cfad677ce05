package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 仪表盘服务配置
type Config struct {
	// 监测后端配置
	Backend struct {
		BaseURL string        // 后端 API 根地址
		Timeout time.Duration // 单次请求超时
	}

	// HTTP 服务配置
	HTTP struct {
		Addr string
	}

	// 仪表盘核心配置
	Dashboard struct {
		PollInterval        time.Duration // 快照轮询间隔，默认 5秒
		AlertDuration       time.Duration // 告警自动消失时间，默认 5秒
		ChartCapacity       int           // 图表滚动窗口容量，默认 20
		RetrainRefetchDelay time.Duration // 重训成功后延迟刷新，默认 1秒
	}

	// 视图缓存配置（把渲染结果发布到 Redis 供其他服务读取）
	Cache struct {
		Enabled bool
		Key     string        // 缓存键，如 "health-watcher:dashboard:view"
		TTL     time.Duration // 缓存 TTL，默认 30秒
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置（先读 .env，再读环境变量，缺省用默认值）
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Backend.BaseURL = getEnv("BACKEND_URL", "http://localhost:5000/api")
	cfg.Backend.Timeout = getEnvDurationMs("BACKEND_TIMEOUT_MS", 10000)

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8086")

	cfg.Dashboard.PollInterval = getEnvDurationMs("POLL_INTERVAL_MS", 5000)
	cfg.Dashboard.AlertDuration = getEnvDurationMs("ALERT_DURATION_MS", 5000)
	cfg.Dashboard.ChartCapacity = getEnvInt("CHART_CAPACITY", 20)
	cfg.Dashboard.RetrainRefetchDelay = getEnvDurationMs("RETRAIN_REFETCH_DELAY_MS", 1000)

	cfg.Cache.Enabled = getEnvBool("CACHE_ENABLED", false)
	cfg.Cache.Key = getEnv("CACHE_KEY", "health-watcher:dashboard:view")
	cfg.Cache.TTL = time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
