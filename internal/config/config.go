package config

import (
	"fmt"
	"os"
	"strconv"

	pkgconfig "freelancedesk/pkg/config"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type StorageConfig struct {
	// Backend: postgres / memory
	Backend string `yaml:"backend"`
	// Migrate 启动时执行数据库迁移
	Migrate bool `yaml:"migrate"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type Config struct {
	Server    pkgconfig.ServerConfig `yaml:"server"`
	DB        pkgconfig.DBConfig     `yaml:"db"`
	Redis     pkgconfig.RedisConfig  `yaml:"redis"`
	Log       pkgconfig.LogConfig    `yaml:"log"`
	Storage   StorageConfig          `yaml:"storage"`
	RateLimit RateLimitConfig        `yaml:"rate_limit"`
}

// Load 读取 base.yaml + <env>.yaml，再用环境变量覆盖
func Load(env, configDir string) (*Config, error) {
	tree, err := pkgconfig.LoadConfig(env, configDir)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := pkgconfig.Decode(tree, cfg); err != nil {
		return nil, err
	}

	pkgconfig.OverrideServerFromEnv(&cfg.Server)
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideLogFromEnv(&cfg.Log)
	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default is the configuration used for keys absent from the yaml files.
func Default() *Config {
	return &Config{
		Server:    pkgconfig.ServerConfig{Port: "8080", GinMode: "release"},
		DB:        pkgconfig.DBConfig{Host: "localhost", Port: 5432, SSLMode: "disable"},
		Log:       pkgconfig.LogConfig{Level: "info", Format: "json"},
		Storage:   StorageConfig{Backend: BackendPostgres, Migrate: true},
		RateLimit: RateLimitConfig{RequestsPerMinute: 120},
	}
}

func overrideFromEnv(cfg *Config) {
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			cfg.RateLimit.RequestsPerMinute = n
		}
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendPostgres:
		if c.DB.Host == "" || c.DB.Name == "" || c.DB.User == "" {
			return fmt.Errorf("db.host, db.name and db.user are required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must not be negative")
	}
	return nil
}

// Addr 返回 http.Server 监听地址
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
