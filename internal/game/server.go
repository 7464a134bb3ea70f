package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/config"
	"github.com/jacl-coder/PixelStorm-Survival/internal/auth"
	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/protocol"
)

var (
	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = errors.New("会话不存在")
	// ErrSessionFull 会话数已达上限
	ErrSessionFull = errors.New("会话数已达上限")
	// ErrSessionClosed 会话已停止
	ErrSessionClosed = errors.New("会话已停止")
)

// GameServer 游戏服务器，每个连接对应一个单人会话
type GameServer struct {
	config    *config.Config
	catalog   *catalog.Catalog
	options   Options
	issuer    *auth.Issuer
	codec     protocol.Codec
	recorders []RunRecorder

	sessions      map[string]*Session
	sessionsMutex sync.RWMutex
	httpServer    *http.Server

	// 关闭信号
	shutdown  chan struct{}
	isRunning bool
}

// OptionsFromConfig 由配置生成模拟参数
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	sim := cfg.Simulation
	opts.Spawn, opts.Combat, opts.Separation = sim.ToSettings(cfg.Server.Debug)
	if sim.WatchdogTicks > 0 {
		opts.WatchdogTicks = sim.WatchdogTicks
	}
	opts.ExternalAnimation = sim.ExternalAnimation
	opts.PauseOnDraft = sim.PauseOnDraft
	opts.Seed = sim.Seed
	return opts
}

// NewGameServer 创建新的游戏服务器
func NewGameServer(cfg *config.Config, cat *catalog.Catalog, issuer *auth.Issuer, recorders ...RunRecorder) (*GameServer, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("数值表校验失败: %w", err)
	}
	codec, err := protocol.CodecByName(cfg.Session.FrameCodec)
	if err != nil {
		return nil, err
	}
	return &GameServer{
		config:    cfg,
		catalog:   cat,
		options:   OptionsFromConfig(cfg),
		issuer:    issuer,
		codec:     codec,
		recorders: recorders,
		sessions:  make(map[string]*Session),
		shutdown:  make(chan struct{}),
	}, nil
}

// Start 启动游戏服务器
func (s *GameServer) Start() error {
	if s.isRunning {
		return fmt.Errorf("服务器已经在运行")
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Server.GamePort),
		Handler: s.Handler(),
	}

	go func() {
		log.Printf("游戏服务器启动，监听端口: %d", s.config.Server.GamePort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	go s.sessionManager()

	s.isRunning = true
	return nil
}

// Stop 停止游戏服务器
func (s *GameServer) Stop() error {
	if !s.isRunning {
		return nil
	}

	close(s.shutdown)
	s.stopSessions()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	s.isRunning = false
	log.Println("游戏服务器已停止")
	return nil
}

func (s *GameServer) stopSessions() {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()
	for id, session := range s.sessions {
		session.Stop()
		delete(s.sessions, id)
	}
}

// Handler 创建HTTP处理器
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket 连接端点
	mux.HandleFunc("/ws", s.handleWSConnection)

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// sessionManager 定期清理空闲会话
func (s *GameServer) sessionManager() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.cleanupSessions(now)
		case <-s.shutdown:
			return
		}
	}
}

// cleanupSessions 清理空闲或已结束的会话
func (s *GameServer) cleanupSessions(now time.Time) int {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	n := 0
	for id, session := range s.sessions {
		if session.ShouldCleanup(now) {
			log.Printf("清理空闲会话: %s", id)
			session.Stop()
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// CreateSession 为玩家创建会话并启动循环
func (s *GameServer) CreateSession(player string) (*Session, error) {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	if limit := s.config.Server.MaxSessions; limit > 0 && len(s.sessions) >= limit {
		return nil, ErrSessionFull
	}

	sim, err := NewSimulation(s.catalog, s.options)
	if err != nil {
		return nil, err
	}
	session := NewSession(player, sim, SessionConfig{
		TickInterval:  s.config.Server.TickInterval(),
		SnapshotEvery: s.config.Session.SnapshotEvery,
		IdleTimeout:   s.config.Session.IdleTimeout,
	}, s.recorders...)
	s.sessions[session.ID] = session
	session.Run()

	log.Printf("创建会话: %s, 玩家: %s", session.ID, player)
	return session, nil
}

// GetSession 获取会话
func (s *GameServer) GetSession(id string) (*Session, error) {
	s.sessionsMutex.RLock()
	defer s.sessionsMutex.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// RemoveSession 停止并移除会话
func (s *GameServer) RemoveSession(id string) error {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.Stop()
	delete(s.sessions, id)
	return nil
}

// SessionCount 当前会话数
func (s *GameServer) SessionCount() int {
	s.sessionsMutex.RLock()
	defer s.sessionsMutex.RUnlock()
	return len(s.sessions)
}
