package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/config"
	_ "github.com/lib/pq"
)

// 未配置连接池时的兜底值
const (
	defaultMaxOpenConns   = 10
	defaultMaxIdleConns   = 5
	defaultConnectTimeout = 5 * time.Second
)

var (
	// DB 对局记录库连接实例
	DB *sql.DB
)

// InitPostgres 按全局配置连接run_records所在的PostgreSQL
func InitPostgres() error {
	dbConfig := config.GlobalConfig.Database

	conn, err := sql.Open("postgres", dbConfig.GetDSN())
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}
	configurePool(conn, dbConfig)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout(dbConfig.ConnectTimeout))
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("数据库Ping失败: %w", err)
	}

	DB = conn
	log.Printf("成功连接到PostgreSQL数据库 %s:%d/%s (连接池上限 %d)",
		dbConfig.Host, dbConfig.Port, dbConfig.DBName, conn.Stats().MaxOpenConnections)
	return nil
}

// configurePool 应用连接池配置，非正数沿用兜底值
func configurePool(conn *sql.DB, cfg config.DatabaseConfig) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func connectTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultConnectTimeout
	}
	return d
}

// Close 关闭数据库连接
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
		log.Println("数据库连接已关闭")
	}
}
