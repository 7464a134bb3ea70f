// body.go

package entity

import (
	"math"
	"math/rand"

	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// ReferenceFPS 速度以每参考帧(1/60秒)为单位
const ReferenceFPS = 60.0

// Body 玩家与怪物共有的实体数据
type Body struct {
	ID             string
	Position       models.Vector2D
	Facing         models.Direction
	Health         float64
	MaxHealth      float64
	Speed          float64
	BaseRadius     float64
	RadiusOverride float64
	ScaleX         float64
	ScaleY         float64
	State          LifeState
	Anim           Animation

	lockTicks int
}

// CollisionRadius 碰撞半径：优先使用覆盖值，否则为基础半径乘以最大缩放
func (b *Body) CollisionRadius() float64 {
	if b.RadiusOverride > 0 {
		return b.RadiusOverride
	}
	return b.BaseRadius * math.Max(math.Abs(b.ScaleX), math.Abs(b.ScaleY))
}

// IsDead 是否已死亡
func (b *Body) IsDead() bool {
	return b.State == StateDead
}

// HealthFraction 当前生命比例
func (b *Body) HealthFraction() float64 {
	if b.MaxHealth <= 0 {
		return 0
	}
	return b.Health / b.MaxHealth
}

// Hint 渲染子状态提示
func (b *Body) Hint() string {
	return b.Anim.Name
}

// stuck 看门狗判定，每tick调用一次。一次性片段停滞超限，
// 或攻击、硬直状态下播放着不会结束的循环片段超限，都视为卡死
func (b *Body) stuck(limit int) bool {
	if limit <= 0 {
		b.lockTicks = 0
		return false
	}
	locked := b.State == StateAttacking || b.State == StateHurt
	if locked && b.Anim.Loop {
		b.lockTicks++
	} else {
		b.lockTicks = 0
	}
	return b.Anim.Stalled(limit) || b.lockTicks > limit
}

// move 按参考帧速度沿方向移动
func (b *Body) move(dir models.Vector2D, speed, dt float64) {
	if dir.LenSq() == 0 {
		return
	}
	b.Position = b.Position.Add(dir.Scale(speed * dt * ReferenceFPS))
	if d := models.DirectionOf(dir); d != models.DirNone {
		b.Facing = d
	}
}

// World 实体更新时所需的外部环境
type World struct {
	Bounds            models.Bounds
	Rand              *rand.Rand
	Hooks             Hooks
	WatchdogTicks     int
	ExternalAnimation bool
}

func (w *World) hooks() Hooks {
	if w == nil || w.Hooks == nil {
		return NopHooks{}
	}
	return w.Hooks
}

func (w *World) float64() float64 {
	if w == nil || w.Rand == nil {
		return rand.Float64()
	}
	return w.Rand.Float64()
}

func (w *World) clamp(p models.Vector2D) models.Vector2D {
	if w == nil || w.Bounds.Width <= 0 || w.Bounds.Height <= 0 {
		return p
	}
	return w.Bounds.Clamp(p)
}

func (w *World) watchdogLimit() int {
	if w == nil {
		return 0
	}
	return w.WatchdogTicks
}

func (w *World) external() bool {
	return w != nil && w.ExternalAnimation
}
