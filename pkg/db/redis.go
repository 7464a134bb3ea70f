package db

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/jacl-coder/PixelStorm-Survival/config"
)

var (
	// RedisClient 排行榜使用的Redis客户端
	RedisClient *redis.Client
)

// redisOptions 由配置生成客户端参数，连接池参数为0时使用go-redis默认值
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
	}
}

// InitRedis 初始化Redis连接
func InitRedis() error {
	redisConfig := config.GlobalConfig.Redis
	client := redis.NewClient(redisOptions(redisConfig))

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout(redisConfig.DialTimeout))
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return fmt.Errorf("Redis连接失败: %w", err)
	}

	RedisClient = client
	log.Printf("成功连接到Redis服务器 %s (db %d)", redisConfig.GetRedisAddr(), redisConfig.DB)
	return nil
}

// CloseRedis 关闭Redis连接
func CloseRedis() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Close(); err != nil {
		log.Printf("关闭Redis连接时发生错误: %v", err)
		return
	}
	RedisClient = nil
	log.Println("Redis连接已关闭")
}
