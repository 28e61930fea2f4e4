package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/agentruntime"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/api/handlers"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/internal/cache"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/internal/database"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/internal/metrics"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/orchestrator"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/persistence"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/retrieval"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/tenant"
)

// =============================================================================
// 🖥️ 服务器组装与生命周期
// =============================================================================

// Server 组装全部组件并托管 HTTP 与 metrics 两个监听
type Server struct {
	cfg           *config.Config
	logger        *zap.Logger
	httpServer    *http.Server
	metricsServer *http.Server
	pool          *database.PoolManager
	cacheManager  *cache.Manager
}

// NewServer 按依赖顺序装配：配置 → 存储 → 缓存 → 客户端 → 编排器 → 路由
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	pool, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	turnStore, err := persistence.NewGormTurnStore(pool.DB(), logger)
	if err != nil {
		return nil, err
	}

	courseStore, err := tenant.NewCourseStore(pool.DB(), logger)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector("lecture", logger)

	var courses tenant.CourseSource = courseStore
	var cacheManager *cache.Manager
	if cfg.Redis.Enabled {
		cacheManager, err = cache.NewManager(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		courses = tenant.NewCachedCourseSource(courseStore, cacheManager, cfg.Redis.DefaultTTL, logger).
			WithMetrics(collector.RecordCacheHit, collector.RecordCacheMiss)
	}

	registry, err := orchestrator.NewDescriptorRegistry(cfg.AgentRuntime.Agents)
	if err != nil {
		return nil, err
	}

	invoker := agentruntime.NewClient(cfg.AgentRuntime, logger)
	retriever := retrieval.NewClient(cfg.Retrieval, logger)

	orch := orchestrator.New(invoker, retriever, turnStore, courses,
		registry, collector, cfg.Orchestrator, logger)

	conversationHandler := handlers.NewConversationHandler(orch, collector, logger)

	healthHandler := handlers.NewHealthHandler(logger)
	healthHandler.RegisterCheck(handlers.NewPingCheck("database", pool.Ping))
	if cacheManager != nil {
		healthHandler.RegisterCheck(handlers.NewPingCheck("redis", cacheManager.Ping))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/conversations/messages", conversationHandler.HandleMessage)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/ready", healthHandler.HandleReady)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	return &Server{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:      mux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		metricsServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
			Handler: metricsMux,
		},
		pool:         pool,
		cacheManager: cacheManager,
	}, nil
}

// Start 启动 HTTP 与 metrics 监听
func (s *Server) Start() error {
	go func() {
		s.logger.Info("metrics server listening", zap.String("addr", s.metricsServer.Addr))
		if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	return nil
}

// WaitForShutdown 阻塞直到收到退出信号，然后优雅关闭
func (s *Server) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	s.logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("http shutdown failed", zap.Error(err))
	}
	if err := s.metricsServer.Shutdown(ctx); err != nil {
		s.logger.Error("metrics shutdown failed", zap.Error(err))
	}
	if s.cacheManager != nil {
		if err := s.cacheManager.Close(); err != nil {
			s.logger.Error("cache close failed", zap.Error(err))
		}
	}
	if err := s.pool.Close(); err != nil {
		s.logger.Error("database close failed", zap.Error(err))
	}
}
