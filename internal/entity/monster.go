// monster.go

package entity

import (
	"math"

	"github.com/google/uuid"
	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// 怪物动画时间轴(秒)
const (
	monsterAttackFrames   = 6
	monsterAttackFrameDur = 0.08
	monsterImpactFrame    = 3
	monsterHurtDuration   = 0.2
	monsterDeathFrames    = 6
	monsterDeathFrameDur  = 0.1
	monsterRunFrames      = 4
	monsterRunFrameDur    = 0.12
)

// Monster 怪物实体，行为由变体标签加参数表决定
type Monster struct {
	Body

	Type           string
	Name           string
	Category       catalog.MonsterCategory
	Variant        catalog.Variant
	Tunables       catalog.VariantTunables
	Damage         float64
	AttackRange    float64
	DetectionRange float64
	AttackCooldown float64
	XP             float64
	DropTable      string
	Behavior       Behavior
	Target         *Player
	Boss           bool
	Pack           string          // 非空时为怪物群成员，不参与分离
	LineVelocity   models.Vector2D // 直线冲锋队列的固定速度(每参考帧)

	cooldown      float64
	resume        Behavior
	hurtTimer     float64
	strikePending bool
	attackLanded  bool
	deathFired    bool
	removable     bool
	despawned     bool
	bossApplied   bool

	dashVel      models.Vector2D
	dashTimer    float64
	dashCooldown float64
	windupTimer  float64
	windupDir    models.Vector2D
	enraged      bool
	shootCD      float64
	roamTimer    float64
	roamDir      models.Vector2D
}

// NewMonster 按数值表创建怪物实例
func NewMonster(stats *catalog.MonsterStats, tun catalog.VariantTunables, pos models.Vector2D, target *Player) *Monster {
	scale := stats.Scale
	if scale == 0 {
		scale = 1
	}
	m := &Monster{
		Type:           stats.ID,
		Name:           stats.Name,
		Category:       stats.Category,
		Variant:        stats.Variant,
		Tunables:       tun,
		Damage:         stats.Damage,
		AttackRange:    stats.AttackRange,
		DetectionRange: stats.DetectionRange,
		AttackCooldown: stats.AttackCooldown,
		XP:             stats.XP,
		DropTable:      stats.DropTable,
		Target:         target,
		Behavior:       BehaviorIdle,
	}
	m.ID = uuid.New().String()
	m.Position = pos
	m.Facing = models.DirDown
	m.Health = stats.Health
	m.MaxHealth = stats.Health
	m.Speed = stats.Speed
	m.BaseRadius = stats.BaseRadius
	m.RadiusOverride = stats.RadiusOverride
	m.ScaleX, m.ScaleY = scale, scale
	m.State = StateIdle
	m.Anim.Play(HintIdle, 1, 0, true)
	return m
}

// TakeDamage 受到伤害，返回实际伤害。生命归零时进入死亡并触发一次死亡钩子
func (m *Monster) TakeDamage(amount float64, w *World) float64 {
	if m.State == StateDead || !(amount > 0) || math.IsInf(amount, 0) {
		return 0
	}
	dmg := math.Min(amount, m.Health)
	m.Health -= dmg

	if m.Health <= 0 {
		m.Health = 0
		m.die(w)
		return dmg
	}

	if m.State != StateAttacking {
		m.enterHurt()
	}
	return dmg
}

func (m *Monster) enterHurt() {
	if m.State != StateHurt {
		m.resume = m.Behavior
	}
	m.State = StateHurt
	m.hurtTimer = monsterHurtDuration
	m.dashTimer = 0
	m.dashVel = models.Vector2D{}
	m.windupTimer = 0
	m.Anim.Play(HintHurt, 1, monsterHurtDuration, false)
}

func (m *Monster) die(w *World) {
	m.State = StateDead
	m.Behavior = BehaviorIdle
	m.strikePending = false
	m.dashTimer = 0
	m.windupTimer = 0
	m.Anim.Play(HintDeath, monsterDeathFrames, monsterDeathFrameDur, false)
	m.Anim.External = w.external()
	if !m.deathFired {
		m.deathFired = true
		w.hooks().MonsterDied(m)
	}
}

// Kill 直接击杀(清屏拾取等)
func (m *Monster) Kill(w *World) {
	if m.State == StateDead {
		return
	}
	m.Health = 0
	m.die(w)
}

// Heal 恢复生命
func (m *Monster) Heal(amount float64) {
	if m.State == StateDead || !(amount > 0) {
		return
	}
	m.Health = math.Min(m.MaxHealth, m.Health+amount)
}

// SetState 外部设置逻辑状态，死亡后不可离开，进入死亡需走伤害流程
// 攻击与硬直走各自的流程，保证片段与逻辑状态一致
func (m *Monster) SetState(s LifeState) {
	if m.State == StateDead || s == StateDead {
		return
	}
	switch s {
	case StateHurt:
		m.enterHurt()
	case StateAttacking:
		if m.State == StateAttacking {
			return
		}
		dir := m.Facing.Vector()
		if m.hasTarget() {
			dir = m.Target.Position.Sub(m.Position)
		}
		m.startAttack(dir, false)
	case StateMoving:
		if lifeStateFor(m.Behavior) != StateMoving {
			m.SetBehavior(BehaviorChasing)
		} else {
			m.State = StateMoving
		}
		m.playBehavior()
	default:
		m.SetBehavior(BehaviorIdle)
		m.playBehavior()
	}
}

// SetBehavior 设置行为状态并同步逻辑状态
func (m *Monster) SetBehavior(b Behavior) {
	if m.State == StateDead {
		return
	}
	m.Behavior = b
	m.State = lifeStateFor(b)
}

// ApplyBossMultipliers 将Boss倍率直接作用于本实例，只生效一次
func (m *Monster) ApplyBossMultipliers(health, damage, speed, scale float64) {
	if m.bossApplied {
		return
	}
	m.bossApplied = true
	m.Boss = true
	m.MaxHealth *= health
	m.Health *= health
	m.Damage *= damage
	m.Speed *= speed
	m.ScaleX *= scale
	m.ScaleY *= scale
}

// Enraged 是否已狂暴
func (m *Monster) Enraged() bool {
	return m.enraged
}

// Dashing 是否处于冲刺中
func (m *Monster) Dashing() bool {
	return m.dashTimer > 0
}

// WindingUp 是否处于蓄力中
func (m *Monster) WindingUp() bool {
	return m.windupTimer > 0
}

// TakeStrike 取走本帧待结算的近战攻击
func (m *Monster) TakeStrike() bool {
	if !m.strikePending {
		return false
	}
	m.strikePending = false
	return m.State != StateDead
}

// CompleteAnimation 渲染端汇报当前片段播放完毕
func (m *Monster) CompleteAnimation() {
	m.Anim.Complete()
}

// AdvanceAnimation 渲染端汇报当前帧
func (m *Monster) AdvanceAnimation(frame int) {
	m.Anim.Advance(frame)
}

// IsRemovable 死亡动画结束或离开地图后可移除
func (m *Monster) IsRemovable() bool {
	return m.removable
}

// Despawned 是否因离开地图被移除(不计击杀)
func (m *Monster) Despawned() bool {
	return m.despawned
}

// Dying 已死亡但尚未可移除
func (m *Monster) Dying() bool {
	return m.State == StateDead && !m.removable
}

// Invalidate 位置失效时直接标记移除
func (m *Monster) Invalidate() {
	m.removable = true
	m.despawned = true
}
