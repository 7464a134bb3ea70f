package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePool(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantMax int
	}{
		{"按配置", config.DatabaseConfig{MaxOpenConns: 32, MaxIdleConns: 8, ConnMaxLifetime: time.Minute}, 32},
		{"未配置使用兜底值", config.DatabaseConfig{}, defaultMaxOpenConns},
		{"空闲数超过上限", config.DatabaseConfig{MaxOpenConns: 3, MaxIdleConns: 10}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// sql.Open 不会真正建立连接
			conn, err := sql.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable")
			require.NoError(t, err)
			defer conn.Close()

			configurePool(conn, tt.cfg)
			assert.Equal(t, tt.wantMax, conn.Stats().MaxOpenConnections)
		})
	}
}

func TestConnectTimeout(t *testing.T) {
	assert.Equal(t, defaultConnectTimeout, connectTimeout(0))
	assert.Equal(t, 2*time.Second, connectTimeout(2*time.Second))
}

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(config.RedisConfig{
		Host:         "cache",
		Port:         6380,
		Password:     "secret",
		DB:           2,
		PoolSize:     40,
		MinIdleConns: 4,
		DialTimeout:  3 * time.Second,
	})
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 40, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
}

func TestPoolDefaultsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
}
