package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/config"
	"github.com/jacl-coder/PixelStorm-Survival/internal/auth"
	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
)

// ServiceInstance 后端游戏服务实例
type ServiceInstance struct {
	ID        string
	URL       *url.URL
	Health    bool
	LastCheck time.Time
}

// Deps 网关依赖，Leaderboard 与 History 可以为空
type Deps struct {
	Issuer      *auth.Issuer
	Catalog     *catalog.Catalog
	Leaderboard Leaderboard
	History     RunHistory
}

// Gateway API网关
type Gateway struct {
	config     *config.Config
	deps       Deps
	limiter    *RateLimiter
	services   []*ServiceInstance
	next       int
	mutex      sync.RWMutex
	httpServer *http.Server
	isRunning  bool
	shutdown   chan struct{}
}

// NewGateway 创建新的网关
func NewGateway(cfg *config.Config, deps Deps) *Gateway {
	return &Gateway{
		config:   cfg,
		deps:     deps,
		limiter:  NewRateLimiter(120),
		shutdown: make(chan struct{}),
	}
}

// Start 启动网关
func (g *Gateway) Start() error {
	if g.isRunning {
		return fmt.Errorf("网关已经在运行")
	}

	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", g.config.Server.GatewayPort),
		Handler: g.Handler(),
	}

	gameURL := fmt.Sprintf("http://localhost:%d", g.config.Server.GamePort)
	if err := g.RegisterService(gameURL); err != nil {
		log.Printf("注册服务失败: %v", err)
	}

	go g.healthCheck()
	go g.limiter.Run(g.shutdown)

	go func() {
		log.Printf("API网关启动，监听端口: %d", g.config.Server.GatewayPort)
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	g.isRunning = true
	return nil
}

// Stop 停止网关
func (g *Gateway) Stop() error {
	if !g.isRunning {
		return nil
	}

	close(g.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	g.isRunning = false
	log.Println("API网关已停止")
	return nil
}

// RegisterService 注册游戏服务实例
func (g *Gateway) RegisterService(serviceURL string) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("无效的服务URL: %w", err)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.services = append(g.services, &ServiceInstance{
		ID:        fmt.Sprintf("game-%d", len(g.services)+1),
		URL:       parsedURL,
		Health:    true,
		LastCheck: time.Now(),
	})
	log.Printf("注册游戏服务: %s", serviceURL)
	return nil
}

// Handler 创建HTTP处理器
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()

	NewAuthHandler(g.deps.Issuer).RegisterHandlers(mux)
	NewStatsHandler(g.deps.Leaderboard, g.deps.History).RegisterHandlers(mux)
	if g.deps.Catalog != nil {
		NewCatalogHandler(g.deps.Catalog).RegisterHandlers(mux)
	}

	// 转发到游戏服务(含websocket)
	mux.HandleFunc("/game/", g.handleGameRequest)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return g.applyMiddleware(mux)
}

// applyMiddleware 按顺序应用中间件(从外到内)
func (g *Gateway) applyMiddleware(handler http.Handler) http.Handler {
	cache := NewCacheMiddleware()

	handler = cache.Middleware(handler)
	handler = g.limiter.Middleware(handler)
	handler = CORSMiddleware(handler)
	handler = SecurityMiddleware(handler)
	handler = LoggingMiddleware(handler)
	return handler
}

// handleGameRequest 校验令牌后转发到游戏服务
func (g *Gateway) handleGameRequest(w http.ResponseWriter, r *http.Request) {
	if !g.validateAuth(r) {
		sendError(w, "未授权", http.StatusUnauthorized)
		return
	}

	instance := g.getServiceInstance()
	if instance == nil {
		sendError(w, "服务不可用", http.StatusServiceUnavailable)
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(instance.URL)
	r.URL.Path = strings.TrimPrefix(r.URL.Path, "/game")
	r.Header.Set("X-Forwarded-Host", r.Host)
	r.Host = instance.URL.Host
	proxy.ServeHTTP(w, r)
}

// validateAuth 校验请求携带的令牌
func (g *Gateway) validateAuth(r *http.Request) bool {
	token := bearerToken(r)
	if token == "" || g.deps.Issuer == nil {
		return false
	}
	_, err := g.deps.Issuer.Parse(token)
	return err == nil
}

// getServiceInstance 轮询选择健康的实例
func (g *Gateway) getServiceInstance() *ServiceInstance {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for i := 0; i < len(g.services); i++ {
		inst := g.services[(g.next+i)%len(g.services)]
		if inst.Health {
			g.next = (g.next + i + 1) % len(g.services)
			return inst
		}
	}
	return nil
}

// healthCheck 健康检查
func (g *Gateway) healthCheck() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.checkServicesHealth()
		case <-g.shutdown:
			return
		}
	}
}

// checkServicesHealth 检查服务健康状态
func (g *Gateway) checkServicesHealth() {
	g.mutex.RLock()
	instances := make([]*ServiceInstance, len(g.services))
	copy(instances, g.services)
	g.mutex.RUnlock()

	client := http.Client{Timeout: 2 * time.Second}
	for _, instance := range instances {
		healthURL := *instance.URL
		healthURL.Path = "/health"
		resp, err := client.Get(healthURL.String())
		healthy := err == nil && resp.StatusCode == http.StatusOK
		if resp != nil {
			resp.Body.Close()
		}

		g.mutex.Lock()
		instance.LastCheck = time.Now()
		if healthy != instance.Health {
			if healthy {
				log.Printf("服务恢复健康: %s", instance.ID)
			} else {
				log.Printf("服务不健康: %s", instance.ID)
			}
			instance.Health = healthy
		}
		g.mutex.Unlock()
	}
}
