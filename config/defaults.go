package config

import "time"

// =============================================================================
// 🧩 默认配置
// =============================================================================

// DefaultConfig 返回完整的默认配置。
// 生产环境的 agent 描述符与协作方地址必须通过 YAML 或环境变量提供。
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			MetricsPort:     9090,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Name:            "lecture.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			DefaultTTL: 5 * time.Minute,
		},
		AgentRuntime: AgentRuntimeConfig{
			BaseURL: "http://localhost:8900",
		},
		Retrieval: RetrievalConfig{
			BaseURL: "http://localhost:8901",
			ModelID: "anthropic.claude-3-7-sonnet-20250219-v1:0",
		},
		Orchestrator: OrchestratorConfig{
			MaxRounds:     8,
			HistoryWindow: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
