// main.go

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacl-coder/PixelStorm-Survival/config"
	"github.com/jacl-coder/PixelStorm-Survival/internal/auth"
	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/game"
	"github.com/jacl-coder/PixelStorm-Survival/internal/gateway"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/jacl-coder/PixelStorm-Survival/pkg/db"
)

// stopper 可停止的服务
type stopper interface {
	Stop() error
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	serviceType := flag.String("service", "all", "服务类型 (game, gateway, all)")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	cfg := &config.GlobalConfig

	cat, err := catalog.Load(cfg.Simulation.CatalogPath)
	if err != nil {
		log.Fatalf("加载数值表失败: %v", err)
	}

	issuer, err := auth.NewIssuer(cfg.Session.JWTSecret, cfg.Session.TokenTTL)
	if err != nil {
		log.Fatalf("初始化令牌签发失败: %v", err)
	}

	// 数据库与Redis都是可选的
	var recorders []game.RunRecorder
	deps := gateway.Deps{Issuer: issuer, Catalog: cat}

	if cfg.Database.Enabled {
		if err := db.InitPostgres(); err != nil {
			log.Fatalf("初始化PostgreSQL失败: %v", err)
		}
		defer db.Close()
		if err := db.InitAllTables(); err != nil {
			log.Fatalf("初始化数据库表失败: %v", err)
		}
		store := models.NewPostgresRunStore(db.DB)
		recorders = append(recorders, store)
		deps.History = store
	}

	if cfg.Redis.Enabled {
		if err := db.InitRedis(); err != nil {
			log.Fatalf("初始化Redis失败: %v", err)
		}
		defer db.CloseRedis()
		board := models.NewRedisLeaderboard(db.RedisClient)
		recorders = append(recorders, board)
		deps.Leaderboard = board
	}

	var services []stopper
	switch *serviceType {
	case "game":
		services = append(services, startGameServer(cfg, cat, issuer, recorders))
	case "gateway":
		services = append(services, startGateway(cfg, deps))
	case "all":
		services = append(services,
			startGameServer(cfg, cat, issuer, recorders),
			startGateway(cfg, deps),
		)
	default:
		log.Fatalf("未知的服务类型: %s", *serviceType)
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("接收到关闭信号，正在关闭服务器...")
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(); err != nil {
			log.Printf("关闭服务失败: %v", err)
		}
	}
	log.Println("服务器已安全关闭")
}

// startGameServer 启动游戏服务器
func startGameServer(cfg *config.Config, cat *catalog.Catalog, issuer *auth.Issuer, recorders []game.RunRecorder) stopper {
	server, err := game.NewGameServer(cfg, cat, issuer, recorders...)
	if err != nil {
		log.Fatalf("创建游戏服务器失败: %v", err)
	}
	if err := server.Start(); err != nil {
		log.Fatalf("启动游戏服务器失败: %v", err)
	}
	log.Println("游戏服务器已启动")
	return server
}

// startGateway 启动网关服务器
func startGateway(cfg *config.Config, deps gateway.Deps) stopper {
	gw := gateway.NewGateway(cfg, deps)
	if err := gw.Start(); err != nil {
		log.Fatalf("启动网关服务失败: %v", err)
	}
	log.Println("网关服务已启动")
	return gw
}
