package spawn

import (
	"math"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// Settings 刷怪调度参数，时间单位为秒
type Settings struct {
	WaveDuration  float64
	BaseInterval  float64
	IntervalRate  float64
	MinInterval   float64
	SpawnRadius   float64
	SpawnJitter   float64
	PassiveChance float64
	PackChance    float64
	PackMinWave   int
	MaxMonsters   int

	BarrageWave     int
	BarrageCategory catalog.MonsterCategory
	BarrageBoost    float64 // 弹幕波次中目标分类的权重倍率
	BarrageRateMult float64 // 弹幕波次刷怪频率倍率

	BossHealth float64
	BossDamage float64
	BossSpeed  float64
	BossScale  float64

	World models.Bounds
	Debug bool
}

// DefaultSettings 默认参数
func DefaultSettings() Settings {
	return Settings{
		WaveDuration:    30,
		BaseInterval:    2.0,
		IntervalRate:    0.08,
		MinInterval:     0.4,
		SpawnRadius:     600,
		SpawnJitter:     80,
		PassiveChance:   0.02,
		PackChance:      0.03,
		PackMinWave:     8,
		MaxMonsters:     300,
		BarrageWave:     25,
		BarrageCategory: catalog.MonsterFlying,
		BarrageBoost:    2,
		BarrageRateMult: 2,
		BossHealth:      4,
		BossDamage:      2,
		BossSpeed:       1.2,
		BossScale:       1.5,
		World:           models.Bounds{Width: 3200, Height: 3200},
	}
}

// SpawnInterval 刷怪间隔 max(min, base - wave*rate)，随波次单调不增
func (s Settings) SpawnInterval(wave int) float64 {
	return math.Max(s.MinInterval, s.BaseInterval-float64(wave)*s.IntervalRate)
}

// IsBossWave Boss波次：15, 20, 25, ...
func IsBossWave(wave int) bool {
	return wave >= 15 && (wave-15)%5 == 0
}

// IsPackWave 怪物群波次：12, 18, 24, ...
func IsPackWave(wave int) bool {
	return wave >= 12 && (wave-12)%6 == 0
}

// IsBarrageWave 弹幕波次
func (s Settings) IsBarrageWave(wave int) bool {
	return s.BarrageWave > 0 && wave == s.BarrageWave
}
