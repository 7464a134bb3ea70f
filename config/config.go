// config.go

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/combat"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/jacl-coder/PixelStorm-Survival/internal/spawn"
	"github.com/spf13/viper"
)

// Config 服务器配置结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Session    SessionConfig    `mapstructure:"session"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// ServerConfig 服务器基本配置
type ServerConfig struct {
	GamePort    int    `mapstructure:"game_port"`
	GatewayPort int    `mapstructure:"gateway_port"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	MaxSessions int    `mapstructure:"max_sessions"`
	TickRate    int    `mapstructure:"tick_rate"` // 每秒tick数
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	// 连接池
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
}

// SessionConfig 会话与连接配置
type SessionConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	FrameCodec    string        `mapstructure:"frame_codec"`    // json | msgpack | protobuf
	SnapshotEvery int           `mapstructure:"snapshot_every"` // 每隔多少tick推送一帧
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
}

// SpawnConfig 刷怪参数
type SpawnConfig struct {
	WaveDuration    float64 `mapstructure:"wave_duration"`
	BaseInterval    float64 `mapstructure:"base_interval"`
	IntervalRate    float64 `mapstructure:"interval_rate"`
	MinInterval     float64 `mapstructure:"min_interval"`
	SpawnRadius     float64 `mapstructure:"spawn_radius"`
	SpawnJitter     float64 `mapstructure:"spawn_jitter"`
	PassiveChance   float64 `mapstructure:"passive_chance"`
	PackChance      float64 `mapstructure:"pack_chance"`
	MaxMonsters     int     `mapstructure:"max_monsters"`
	BarrageWave     int     `mapstructure:"barrage_wave"`
	BarrageCategory string  `mapstructure:"barrage_category"`
}

// SeparationConfig 怪物互斥参数
type SeparationConfig struct {
	Radius   float64 `mapstructure:"radius"`
	Strength float64 `mapstructure:"strength"`
}

// SimulationConfig 模拟参数
type SimulationConfig struct {
	WorldWidth         float64          `mapstructure:"world_width"`
	WorldHeight        float64          `mapstructure:"world_height"`
	CatalogPath        string           `mapstructure:"catalog_path"`
	TouchCooldown      float64          `mapstructure:"touch_cooldown"`
	OrbitalHitCooldown float64          `mapstructure:"orbital_hit_cooldown"`
	WatchdogTicks      int              `mapstructure:"watchdog_ticks"`
	ExternalAnimation  bool             `mapstructure:"external_animation"`
	PauseOnDraft       bool             `mapstructure:"pause_on_draft"`
	Seed               int64            `mapstructure:"seed"`
	Spawn              SpawnConfig      `mapstructure:"spawn"`
	Separation         SeparationConfig `mapstructure:"separation"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig Config
)

// setDefaults 注册默认值，与内置数值保持一致
func setDefaults(v *viper.Viper) {
	def := spawn.DefaultSettings()

	v.SetDefault("server.game_port", 8081)
	v.SetDefault("server.gateway_port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_sessions", 200)
	v.SetDefault("server.tick_rate", 60)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", "5s")

	v.SetDefault("session.token_ttl", "24h")
	v.SetDefault("session.frame_codec", "json")
	v.SetDefault("session.snapshot_every", 2)
	v.SetDefault("session.idle_timeout", "5m")

	v.SetDefault("simulation.world_width", def.World.Width)
	v.SetDefault("simulation.world_height", def.World.Height)
	v.SetDefault("simulation.touch_cooldown", combat.DefaultTouchCooldown)
	v.SetDefault("simulation.orbital_hit_cooldown", combat.DefaultOrbitalHitCooldown)
	v.SetDefault("simulation.watchdog_ticks", 90)
	v.SetDefault("simulation.pause_on_draft", true)
	v.SetDefault("simulation.spawn.wave_duration", def.WaveDuration)
	v.SetDefault("simulation.spawn.base_interval", def.BaseInterval)
	v.SetDefault("simulation.spawn.interval_rate", def.IntervalRate)
	v.SetDefault("simulation.spawn.min_interval", def.MinInterval)
	v.SetDefault("simulation.spawn.spawn_radius", def.SpawnRadius)
	v.SetDefault("simulation.spawn.spawn_jitter", def.SpawnJitter)
	v.SetDefault("simulation.spawn.passive_chance", def.PassiveChance)
	v.SetDefault("simulation.spawn.pack_chance", def.PackChance)
	v.SetDefault("simulation.spawn.max_monsters", def.MaxMonsters)
	v.SetDefault("simulation.spawn.barrage_wave", def.BarrageWave)
	v.SetDefault("simulation.spawn.barrage_category", string(def.BarrageCategory))
	v.SetDefault("simulation.separation.radius", 28)
	v.SetDefault("simulation.separation.strength", 0.6)
}

// Load 读取配置文件，path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PIXELSTORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}
	return &cfg, nil
}

// LoadConfig 从文件加载配置到 GlobalConfig
func LoadConfig(configPath string) error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	GlobalConfig = *cfg
	return nil
}

// GetDSN 获取PostgreSQL连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetRedisAddr 获取Redis连接地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TickInterval 每个tick的时长
func (c *ServerConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// ToSettings 转换为模拟核心使用的参数结构，未填写的项沿用内置默认值
func (c *SimulationConfig) ToSettings(debug bool) (spawn.Settings, combat.Config, entity.Separation) {
	s := spawn.DefaultSettings()
	s.Debug = debug
	if c.WorldWidth > 0 && c.WorldHeight > 0 {
		s.World = models.Bounds{Width: c.WorldWidth, Height: c.WorldHeight}
	}

	sp := c.Spawn
	setPositive(&s.WaveDuration, sp.WaveDuration)
	setPositive(&s.BaseInterval, sp.BaseInterval)
	setPositive(&s.IntervalRate, sp.IntervalRate)
	setPositive(&s.MinInterval, sp.MinInterval)
	setPositive(&s.SpawnRadius, sp.SpawnRadius)
	setPositive(&s.SpawnJitter, sp.SpawnJitter)
	setPositive(&s.PassiveChance, sp.PassiveChance)
	setPositive(&s.PackChance, sp.PackChance)
	if sp.MaxMonsters > 0 {
		s.MaxMonsters = sp.MaxMonsters
	}
	if sp.BarrageWave > 0 {
		s.BarrageWave = sp.BarrageWave
	}
	if sp.BarrageCategory != "" {
		s.BarrageCategory = catalog.MonsterCategory(sp.BarrageCategory)
	}

	cc := combat.Config{
		TouchCooldown:      c.TouchCooldown,
		OrbitalHitCooldown: c.OrbitalHitCooldown,
	}
	sep := entity.Separation{Radius: c.Separation.Radius, Strength: c.Separation.Strength}
	return s, cc, sep
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
