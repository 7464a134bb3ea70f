// player.go

package entity

import (
	"math"

	"github.com/google/uuid"
	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// MaxCooldownReduction 冷却缩减上限
const MaxCooldownReduction = 0.75

// InputSnapshot 每帧输入快照
type InputSnapshot struct {
	Direction     models.Direction `json:"direction"`
	AttackPressed bool             `json:"attack"`
}

// StatBlock 由被动升级叠加出的属性
type StatBlock struct {
	DamageMult          float64 `json:"damage_mult"`
	MoveSpeedMult       float64 `json:"move_speed_mult"`
	CooldownReduction   float64 `json:"cooldown_reduction"`
	Armor               float64 `json:"armor"`
	ProjectileSpeedMult float64 `json:"projectile_speed_mult"`
	ProjectileCount     int     `json:"projectile_count"`
	Pierce              int     `json:"pierce"`
	MaxHealthBonus      float64 `json:"max_health_bonus"`
}

// DefaultStats 初始属性
func DefaultStats() StatBlock {
	return StatBlock{
		DamageMult:          1,
		MoveSpeedMult:       1,
		ProjectileSpeedMult: 1,
	}
}

// WeaponBonus 单个武器的额外加成
type WeaponBonus struct {
	ExtraProjectiles int `json:"extra_projectiles"`
	ExtraPierce      int `json:"extra_pierce"`
}

// WeaponSlot 已装备武器
type WeaponSlot struct {
	ID       string  `json:"id"`
	Level    int     `json:"level"`
	Behavior string  `json:"behavior"`
	Damage   float64 `json:"damage"`
	Area     float64 `json:"area"`
	Cooldown float64 `json:"cooldown"`
	Speed    float64 `json:"speed"`
	Duration float64 `json:"duration"`
	Count    int     `json:"count"`
	Pierce   int     `json:"pierce"`
	Timer    float64 `json:"-"`
}

// PowerSlot 周期性能力
type PowerSlot struct {
	ID       string  `json:"id"`
	Level    int     `json:"level"`
	Effect   string  `json:"effect"`
	Interval float64 `json:"interval"`
	Amount   float64 `json:"amount"`
	Damage   float64 `json:"damage"`
	Radius   float64 `json:"radius"`
	Count    int     `json:"count"`
	Timer    float64 `json:"-"`
}

// Player 玩家实体
type Player struct {
	Body

	def catalog.PlayerDef

	Level       int
	XP          float64
	BaseDamage  float64
	AttackRange float64
	Stats       StatBlock
	WeaponStats map[string]WeaponBonus
	Weapons     []WeaponSlot
	Powers      []PowerSlot
	Owned       map[string]int

	attackCooldown float64
	attackSeq      int
	hitSet         map[string]struct{}
	resume         LifeState
	hurtTimer      float64
	deathTimer     float64
	deathFired     bool
}

// NewPlayer 创建玩家
func NewPlayer(def catalog.PlayerDef, pos models.Vector2D) *Player {
	p := &Player{def: def}
	p.ID = uuid.New().String()
	p.Reset(pos)
	return p
}

// Reset 完全重置为1级初始状态
func (p *Player) Reset(pos models.Vector2D) {
	p.Position = pos
	p.Facing = models.DirDown
	p.MaxHealth = p.def.BaseHealth
	p.Health = p.def.BaseHealth
	p.Speed = p.def.Speed
	p.BaseRadius = p.def.Radius
	p.RadiusOverride = 0
	p.ScaleX, p.ScaleY = 1, 1
	p.State = StateIdle
	p.lockTicks = 0
	p.Anim = Animation{}
	p.Anim.Play(HintIdle, 1, 0, true)

	p.Level = 1
	p.XP = 0
	p.BaseDamage = p.def.BaseDamage
	p.AttackRange = p.def.AttackRange
	p.Stats = DefaultStats()
	p.WeaponStats = make(map[string]WeaponBonus)
	p.Weapons = nil
	p.Powers = nil
	p.Owned = make(map[string]int)

	p.attackCooldown = 0
	p.attackSeq = 0
	p.hitSet = make(map[string]struct{})
	p.resume = StateIdle
	p.hurtTimer = 0
	p.deathTimer = 0
	p.deathFired = false
}

// Def 玩家基础数值
func (p *Player) Def() catalog.PlayerDef {
	return p.def
}

// TakeDamage 受到伤害，护甲先抵扣但至少造成1点，返回实际伤害
func (p *Player) TakeDamage(amount float64, w *World) float64 {
	if p.State == StateDead || !(amount > 0) || math.IsInf(amount, 0) {
		return 0
	}

	dmg := math.Max(1, amount-p.Stats.Armor)
	if dmg > p.Health {
		dmg = p.Health
	}
	p.Health -= dmg

	if p.Health <= 0 {
		p.Health = 0
		p.die(w)
		return dmg
	}

	if p.State != StateAttacking {
		p.enterHurt()
	}
	return dmg
}

func (p *Player) enterHurt() {
	// 已在硬直中时保留原恢复目标
	if p.State != StateHurt {
		p.resume = p.State
	}
	p.State = StateHurt
	p.hurtTimer = p.def.HurtDuration
	p.Anim.Play(HintHurt, 1, p.def.HurtDuration, false)
}

func (p *Player) die(w *World) {
	p.State = StateDead
	p.deathTimer = p.def.DeathDuration
	p.Anim.Play(HintDeath, 1, p.def.DeathDuration, false)
	if !p.deathFired {
		p.deathFired = true
		w.hooks().PlayerDied(p)
	}
}

// Heal 恢复生命，不超过上限，死亡后无效
func (p *Player) Heal(amount float64) {
	if p.State == StateDead || !(amount > 0) {
		return
	}
	p.Health = math.Min(p.MaxHealth, p.Health+amount)
}

// SetState 外部设置逻辑状态，死亡后不可离开，进入死亡需走伤害流程
func (p *Player) SetState(s LifeState) {
	if p.State == StateDead || s == StateDead {
		return
	}
	switch s {
	case StateHurt:
		p.enterHurt()
	case StateAttacking:
		p.BeginAttack()
	default:
		p.State = s
	}
}

// BeginAttack 开始一次攻击，清空本次攻击的命中集合
func (p *Player) BeginAttack() bool {
	if p.State == StateDead || p.State == StateHurt || p.State == StateAttacking {
		return false
	}
	p.resume = p.State
	p.State = StateAttacking
	p.attackSeq++
	p.hitSet = make(map[string]struct{})
	p.attackCooldown = p.EffectiveCooldown(p.def.AttackCooldown)
	p.Anim.Play(HintAttack, p.def.AttackFrames, p.def.AttackFrameDuration, false)
	return true
}

// AttackSeq 攻击序号，每次新攻击加1
func (p *Player) AttackSeq() int {
	return p.attackSeq
}

// AttackFrame 当前攻击帧，未攻击时返回-1
func (p *Player) AttackFrame() int {
	if p.State != StateAttacking {
		return -1
	}
	return p.Anim.Frame()
}

// IsImpactFrame 当前处于判定帧，或本tick推进时越过了判定帧
func (p *Player) IsImpactFrame() bool {
	f := p.AttackFrame()
	if f < 0 {
		return false
	}
	for _, impact := range p.def.ImpactFrames {
		if impact == f {
			return true
		}
	}
	return p.crossedImpact()
}

func (p *Player) crossedImpact() bool {
	for _, impact := range p.def.ImpactFrames {
		if p.Anim.Crossed(impact) {
			return true
		}
	}
	return false
}

// HasHit 本次攻击是否已命中该怪物
func (p *Player) HasHit(id string) bool {
	_, ok := p.hitSet[id]
	return ok
}

// MarkHit 记录本次攻击命中
func (p *Player) MarkHit(id string) {
	p.hitSet[id] = struct{}{}
}

// AttackHitbox 近战判定圆，位于朝向前方
func (p *Player) AttackHitbox() (models.Vector2D, float64) {
	center := p.Position.Add(p.Facing.Vector().Scale(p.AttackRange * 0.5))
	return center, p.AttackRange * 0.6
}

// MeleeDamage 近战伤害
func (p *Player) MeleeDamage() float64 {
	return p.BaseDamage * p.Stats.DamageMult
}

// MoveSpeed 实际移动速度
func (p *Player) MoveSpeed() float64 {
	return p.Speed * p.Stats.MoveSpeedMult
}

// EffectiveCooldown 应用冷却缩减后的冷却时间
func (p *Player) EffectiveCooldown(base float64) float64 {
	cdr := math.Max(0, math.Min(MaxCooldownReduction, p.Stats.CooldownReduction))
	return base * (1 - cdr)
}

// DeathFinished 死亡动画是否结束
func (p *Player) DeathFinished() bool {
	return p.State == StateDead && (p.deathTimer <= 0 || p.Anim.Done())
}

// Update 推进玩家一帧：移动、攻击、硬直恢复与看门狗
func (p *Player) Update(dt float64, in InputSnapshot, w *World) {
	if p.State == StateDead {
		p.deathTimer -= dt
		p.Anim.Step(dt)
		return
	}

	if p.attackCooldown > 0 {
		p.attackCooldown -= dt
	}

	dir := in.Direction.Vector()
	moving := dir.LenSq() > 0
	if moving {
		p.move(dir, p.MoveSpeed(), dt)
		p.Position = w.clamp(p.Position)
	}
	base := StateIdle
	if moving {
		base = StateMoving
	}

	switch p.State {
	case StateHurt:
		p.Anim.Step(dt)
		p.hurtTimer -= dt
		if p.hurtTimer <= 0 {
			p.State = p.resume
			if p.State == StateAttacking || p.State == StateHurt {
				p.State = base
			}
			p.resume = StateIdle
			p.playBase(base)
		}
	case StateAttacking:
		p.Anim.External = w.external()
		p.Anim.Step(dt)
		// 本tick越过判定帧时多保留一tick攻击状态，让结算能看到判定
		if p.Anim.Done() && !p.crossedImpact() {
			p.State = base
			p.playBase(base)
		}
	default:
		if in.AttackPressed && p.attackCooldown <= 0 {
			p.BeginAttack()
			p.Anim.External = w.external()
		} else {
			p.State = base
			p.playBase(base)
			p.Anim.Step(dt)
		}
	}

	if p.stuck(w.watchdogLimit()) {
		clip := p.Anim.Name
		p.State = base
		p.resume = StateIdle
		p.playBase(base)
		w.hooks().AnimationRecovered(p.ID, clip)
	}
}

func (p *Player) playBase(base LifeState) {
	if base == StateMoving {
		p.Anim.Play(HintRun, 4, 0.1, true)
		return
	}
	p.Anim.Play(HintIdle, 1, 0, true)
}
