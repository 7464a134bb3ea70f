// ai.go

package entity

import (
	"math"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// lineDespawnMargin 直线队列离开地图多远后移除
const lineDespawnMargin = 200

// Update 推进怪物一帧。决策读取的是目标上一帧的位置
func (m *Monster) Update(dt float64, w *World) {
	if m.removable {
		return
	}
	if m.State == StateDead {
		m.Anim.Step(dt)
		// 死亡动画停滞同样视为结束，避免尸体永久滞留
		if m.Anim.Done() || m.Anim.Stalled(w.watchdogLimit()) {
			m.removable = true
		}
		return
	}

	m.tickCooldowns(dt)
	m.checkEnrage()

	if m.LineVelocity.LenSq() > 0 {
		m.updateLine(dt, w)
		return
	}

	switch {
	case m.State == StateHurt:
		m.Anim.Step(dt)
		m.hurtTimer -= dt
		if m.hurtTimer <= 0 {
			m.SetBehavior(m.resume)
			if m.Behavior == BehaviorAttacking {
				m.SetBehavior(BehaviorChasing)
			}
			m.resume = BehaviorIdle
			m.playBehavior()
		}
	case m.dashTimer > 0:
		m.updateDash(dt, w)
	case m.windupTimer > 0:
		m.Anim.Step(dt)
		m.windupTimer -= dt
		if m.windupTimer <= 0 {
			m.startDash(m.windupDir)
		}
	case m.State == StateAttacking:
		m.updateAttack(dt, w)
	default:
		m.decide(dt, w)
		m.Anim.Step(dt)
	}

	if m.State != StateDead && m.stuck(w.watchdogLimit()) {
		m.recover(w)
	}
}

func (m *Monster) tickCooldowns(dt float64) {
	if m.cooldown > 0 {
		m.cooldown -= dt
	}
	if m.dashCooldown > 0 {
		m.dashCooldown -= dt
	}
	if m.shootCD > 0 {
		m.shootCD -= dt
	}
}

// checkEnrage 生命比例首次跌破阈值时触发，只触发一次
func (m *Monster) checkEnrage() {
	if m.Variant != catalog.VariantEnrager || m.enraged || m.Tunables.EnrageThreshold <= 0 {
		return
	}
	if m.HealthFraction() < m.Tunables.EnrageThreshold {
		m.enraged = true
		if m.Tunables.EnrageSpeedMult > 0 {
			m.Speed *= m.Tunables.EnrageSpeedMult
		}
		if m.Tunables.EnrageDamageMult > 0 {
			m.Damage *= m.Tunables.EnrageDamageMult
		}
	}
}

// recover 看门狗：动画卡住时强制回到与行为相符的状态
func (m *Monster) recover(w *World) {
	clip := m.Anim.Name
	m.dashTimer = 0
	m.dashVel = models.Vector2D{}
	m.windupTimer = 0
	m.strikePending = false
	if m.State == StateAttacking || m.State == StateHurt {
		if m.targetInDetection() {
			m.SetBehavior(BehaviorChasing)
		} else {
			m.SetBehavior(BehaviorIdle)
		}
	}
	m.resume = BehaviorIdle
	m.playBehavior()
	w.hooks().AnimationRecovered(m.ID, clip)
}

func (m *Monster) playBehavior() {
	if m.State == StateMoving {
		m.Anim.Play(HintRun, monsterRunFrames, monsterRunFrameDur, true)
		return
	}
	m.Anim.Play(HintIdle, 1, 0, true)
}

func (m *Monster) hasTarget() bool {
	return m.Target != nil && m.Target.State != StateDead
}

func (m *Monster) targetInDetection() bool {
	return m.hasTarget() && m.Position.DistSq(m.Target.Position) <= m.DetectionRange*m.DetectionRange
}

// decide 按变体分派决策
func (m *Monster) decide(dt float64, w *World) {
	switch m.Variant {
	case catalog.VariantPassive:
		m.decidePassive(dt, w)
	case catalog.VariantRanged:
		m.decideRanged(dt, w)
	default:
		m.decideMelee(dt, w)
	}
}

// decideMelee 普通/冲刺/冲锋/狂暴变体
func (m *Monster) decideMelee(dt float64, w *World) {
	if !m.hasTarget() {
		m.idle()
		return
	}
	toTarget := m.Target.Position.Sub(m.Position)
	dist := toTarget.Len()

	if dist <= m.AttackRange && m.cooldown <= 0 {
		m.beginAttack(w, toTarget)
		return
	}
	if dist > m.DetectionRange {
		m.idle()
		return
	}

	dir := toTarget.Normalize()
	m.chase(dir, dt, w)

	if (m.Variant == catalog.VariantDasher || m.Variant == catalog.VariantCharger) && m.dashCooldown <= 0 && m.Tunables.DashDuration > 0 {
		m.dashCooldown = m.Tunables.DashCooldown
		if w.float64() < m.Tunables.DashChance {
			if m.Variant == catalog.VariantCharger && m.Tunables.WindupDuration > 0 {
				m.windupTimer = m.Tunables.WindupDuration
				m.windupDir = dir
				m.State = StateIdle
				m.Anim.Play(HintWindup, 1, m.Tunables.WindupDuration, false)
				return
			}
			m.startDash(dir)
		}
	}
}

// decideRanged 远程变体：保持距离射击，从不近战
func (m *Monster) decideRanged(dt float64, w *World) {
	if !m.hasTarget() {
		m.idle()
		return
	}
	toTarget := m.Target.Position.Sub(m.Position)
	dist := toTarget.Len()
	dir := toTarget.Normalize()

	switch {
	case dist <= m.Tunables.RetreatDistance:
		m.SetBehavior(BehaviorFleeing)
		m.move(dir.Scale(-1), m.Speed, dt)
		m.Position = w.clamp(m.Position)
		m.playBehavior()
	case dist <= m.Tunables.ShootRange:
		if m.shootCD <= 0 {
			m.shootCD = m.Tunables.ShootCooldown
			m.beginAttack(w, toTarget)
			return
		}
		// 射程内原地等待冷却
		m.Behavior = BehaviorChasing
		m.State = StateIdle
		if d := models.DirectionOf(dir); d != models.DirNone {
			m.Facing = d
		}
		m.Anim.Play(HintIdle, 1, 0, true)
	case dist <= m.DetectionRange:
		m.chase(dir, dt, w)
	default:
		m.idle()
	}
}

// decidePassive 被动生物：游荡，玩家靠近时逃跑
func (m *Monster) decidePassive(dt float64, w *World) {
	if m.hasTarget() {
		away := m.Position.Sub(m.Target.Position)
		if away.LenSq() < m.Tunables.FleeDistance*m.Tunables.FleeDistance {
			dir := away.Normalize()
			if dir.LenSq() == 0 {
				dir = models.FromAngle(w.float64() * 2 * math.Pi)
			}
			m.SetBehavior(BehaviorFleeing)
			m.move(dir, m.Speed, dt)
			m.Position = w.clamp(m.Position)
			m.playBehavior()
			return
		}
	}

	m.roamTimer -= dt
	if m.roamTimer <= 0 {
		m.roamTimer = m.Tunables.RoamInterval
		if w.float64() < 0.25 {
			m.roamDir = models.Vector2D{}
		} else {
			m.roamDir = models.FromAngle(w.float64() * 2 * math.Pi)
		}
	}
	if m.roamDir.LenSq() == 0 {
		m.idle()
		return
	}
	m.SetBehavior(BehaviorRoaming)
	m.move(m.roamDir, m.Speed*m.Tunables.RoamSpeedFactor, dt)
	m.Position = w.clamp(m.Position)
	m.playBehavior()
}

func (m *Monster) idle() {
	m.SetBehavior(BehaviorIdle)
	m.playBehavior()
}

func (m *Monster) chase(dir models.Vector2D, dt float64, w *World) {
	m.SetBehavior(BehaviorChasing)
	m.move(dir, m.Speed, dt)
	m.Position = w.clamp(m.Position)
	m.playBehavior()
}

func (m *Monster) beginAttack(w *World, toTarget models.Vector2D) {
	m.startAttack(toTarget, w.external())
}

// startAttack 进入攻击：设置冷却、清空本次命中标记并播放一次性攻击片段
func (m *Monster) startAttack(toTarget models.Vector2D, external bool) {
	if d := models.DirectionOf(toTarget); d != models.DirNone {
		m.Facing = d
	}
	if m.Variant != catalog.VariantRanged {
		m.cooldown = m.AttackCooldown
	}
	m.dashTimer = 0
	m.dashVel = models.Vector2D{}
	m.windupTimer = 0
	m.SetBehavior(BehaviorAttacking)
	m.attackLanded = false
	hint := HintAttack
	if m.Variant == catalog.VariantRanged {
		hint = HintShoot
	}
	m.Anim.Play(hint, monsterAttackFrames, monsterAttackFrameDur, false)
	m.Anim.External = external
}

// updateAttack 攻击动画推进到判定帧时结算一次，动画结束后恢复追击或待机
func (m *Monster) updateAttack(dt float64, w *World) {
	m.Anim.Step(dt)

	if !m.attackLanded && m.Anim.Frame() >= monsterImpactFrame {
		m.attackLanded = true
		if m.Variant == catalog.VariantRanged {
			if m.hasTarget() {
				dir := m.Target.Position.Sub(m.Position).Normalize()
				if dir.LenSq() == 0 {
					dir = m.Facing.Vector()
				}
				w.hooks().FireShot(m, m.Position, dir)
			}
		} else {
			m.strikePending = true
		}
	}

	if m.Anim.Done() {
		if m.targetInDetection() {
			m.SetBehavior(BehaviorChasing)
		} else {
			m.SetBehavior(BehaviorIdle)
		}
		m.playBehavior()
	}
}

func (m *Monster) startDash(dir models.Vector2D) {
	if dir.LenSq() == 0 || m.Tunables.DashDuration <= 0 {
		m.SetBehavior(BehaviorChasing)
		m.playBehavior()
		return
	}
	m.dashVel = dir.Normalize().Scale(m.Tunables.DashDistance / m.Tunables.DashDuration)
	m.dashTimer = m.Tunables.DashDuration
	m.SetBehavior(BehaviorChasing)
	m.Anim.Play(HintDash, 1, m.Tunables.DashDuration, false)
}

// updateDash 冲刺为秒速运动学位移，限制在地图内
func (m *Monster) updateDash(dt float64, w *World) {
	step := dt
	if step > m.dashTimer {
		step = m.dashTimer
	}
	m.Position = w.clamp(m.Position.Add(m.dashVel.Scale(step)))
	if d := models.DirectionOf(m.dashVel); d != models.DirNone {
		m.Facing = d
	}
	m.dashTimer -= dt
	m.Anim.Step(dt)
	if m.dashTimer <= 0 {
		m.dashTimer = 0
		m.dashVel = models.Vector2D{}
		m.playBehavior()
	}
}

// updateLine 直线队列成员沿固定方向前进，离开地图后直接移除
func (m *Monster) updateLine(dt float64, w *World) {
	m.Position = m.Position.Add(m.LineVelocity.Scale(dt * ReferenceFPS))
	if d := models.DirectionOf(m.LineVelocity); d != models.DirNone {
		m.Facing = d
	}
	if m.State != StateHurt {
		m.SetBehavior(BehaviorChasing)
		m.playBehavior()
	} else {
		m.hurtTimer -= dt
		if m.hurtTimer <= 0 {
			m.SetBehavior(BehaviorChasing)
			m.playBehavior()
		}
	}
	m.Anim.Step(dt)
	if w != nil && w.Bounds.Width > 0 && !w.Bounds.Contains(m.Position, lineDespawnMargin) {
		m.removable = true
		m.despawned = true
	}
}
