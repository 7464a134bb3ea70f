// system.go

package combat

import (
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
)

// 默认冷却(秒)
const (
	DefaultTouchCooldown      = 0.5
	DefaultOrbitalHitCooldown = 0.5
)

// Config 碰撞结算参数
type Config struct {
	TouchCooldown      float64
	OrbitalHitCooldown float64
}

// Result 单帧结算统计
type Result struct {
	DamageDealt float64
	DamageTaken float64
	Hits        int
}

// System 碰撞与伤害结算，除冷却表外不持有状态
type System struct {
	touch   *CooldownTracker
	orbital *CooldownTracker
	world   *entity.World
}

// NewSystem 创建结算系统
func NewSystem(cfg Config, world *entity.World) *System {
	if cfg.TouchCooldown <= 0 {
		cfg.TouchCooldown = DefaultTouchCooldown
	}
	if cfg.OrbitalHitCooldown <= 0 {
		cfg.OrbitalHitCooldown = DefaultOrbitalHitCooldown
	}
	return &System{
		touch:   NewCooldownTracker(cfg.TouchCooldown),
		orbital: NewCooldownTracker(cfg.OrbitalHitCooldown),
		world:   world,
	}
}

// Reset 清空冷却表
func (s *System) Reset() {
	s.touch.Reset()
	s.orbital.Reset()
}

// TouchCooldowns 接触伤害冷却表
func (s *System) TouchCooldowns() *CooldownTracker {
	return s.touch
}

// Resolve 按固定顺序结算一帧：先结算玩家造成的伤害，再结算玩家受到的伤害，
// 本帧被击杀的怪物不再造成接触伤害
func (s *System) Resolve(dt float64, player *entity.Player, monsters []*entity.Monster, projectiles []*Projectile, orbitals []*Orbital, shots []*EnemyShot) Result {
	var res Result
	s.dropInvalid(monsters)

	res.add(s.ResolveMelee(player, monsters))
	res.add(s.ResolveProjectiles(projectiles, monsters))
	res.add(s.ResolveOrbitals(dt, orbitals, monsters))

	res.add(s.ResolveMonsterAttacks(monsters, player))
	res.add(s.ResolveEnemyShots(shots, player))
	res.add(s.ResolveTouch(dt, monsters, player))
	return res
}

func (r *Result) add(o Result) {
	r.DamageDealt += o.DamageDealt
	r.DamageTaken += o.DamageTaken
	r.Hits += o.Hits
}

// dropInvalid 坐标失效的怪物直接移出追踪
func (s *System) dropInvalid(monsters []*entity.Monster) {
	for _, m := range monsters {
		if m != nil && !m.Position.IsFinite() && !m.IsRemovable() {
			m.Invalidate()
			s.touch.Forget(m.ID)
		}
	}
}

func targetable(m *entity.Monster) bool {
	return m != nil && m.State != entity.StateDead && !m.IsRemovable() && m.Position.IsFinite()
}

// ResolveMelee 玩家近战，只在判定帧生效，同一次攻击对同一怪物只命中一次
func (s *System) ResolveMelee(player *entity.Player, monsters []*entity.Monster) Result {
	var res Result
	if player == nil || !player.IsImpactFrame() || !player.Position.IsFinite() {
		return res
	}
	center, radius := player.AttackHitbox()
	hitbox := Circle{Center: center, Radius: radius}
	damage := player.MeleeDamage()

	for _, m := range monsters {
		if !targetable(m) || player.HasHit(m.ID) {
			continue
		}
		if Collide(hitbox, BodyCircle(&m.Body)) {
			player.MarkHit(m.ID)
			res.DamageDealt += m.TakeDamage(damage, s.world)
			res.Hits++
		}
	}
	return res
}

// ResolveProjectiles 投射物命中，穿透耗尽后销毁，同一投射物不重复命中同一怪物
func (s *System) ResolveProjectiles(projectiles []*Projectile, monsters []*entity.Monster) Result {
	var res Result
	for _, p := range projectiles {
		if p == nil || p.Dead {
			continue
		}
		if !p.Position.IsFinite() {
			p.Dead = true
			continue
		}
		for _, m := range monsters {
			if !targetable(m) || p.HasHit(m.ID) {
				continue
			}
			if !Collide(p.Circle(), BodyCircle(&m.Body)) {
				continue
			}
			res.DamageDealt += m.TakeDamage(p.Damage, s.world)
			res.Hits++
			if !p.Hit(m.ID) {
				break
			}
		}
	}
	return res
}

// ResolveOrbitals 环绕武器命中，按(环绕物, 怪物)冷却限制重复伤害
func (s *System) ResolveOrbitals(dt float64, orbitals []*Orbital, monsters []*entity.Monster) Result {
	var res Result
	s.orbital.Tick(dt)

	for _, o := range orbitals {
		if o == nil || o.Dead {
			continue
		}
		if !o.Position.IsFinite() {
			o.Dead = true
			continue
		}
		for _, m := range monsters {
			if !targetable(m) {
				continue
			}
			key := o.ID + "|" + m.ID
			if !s.orbital.Ready(key) {
				continue
			}
			if Collide(o.Circle(), BodyCircle(&m.Body)) {
				s.orbital.Trigger(key)
				res.DamageDealt += m.TakeDamage(o.Damage, s.world)
				res.Hits++
			}
		}
	}
	return res
}

// ResolveMonsterAttacks 结算怪物近战判定帧产生的攻击
func (s *System) ResolveMonsterAttacks(monsters []*entity.Monster, player *entity.Player) Result {
	var res Result
	for _, m := range monsters {
		if m == nil || !m.TakeStrike() {
			continue
		}
		if player == nil || player.State == entity.StateDead || !targetable(m) {
			continue
		}
		reach := Circle{Center: m.Position, Radius: m.AttackRange}
		if Collide(reach, BodyCircle(&player.Body)) {
			res.DamageTaken += player.TakeDamage(m.Damage, s.world)
			res.Hits++
		}
	}
	return res
}

// ResolveEnemyShots 怪物投射物命中玩家后销毁
func (s *System) ResolveEnemyShots(shots []*EnemyShot, player *entity.Player) Result {
	var res Result
	if player == nil || player.State == entity.StateDead {
		return res
	}
	for _, shot := range shots {
		if shot == nil || shot.Dead {
			continue
		}
		if !shot.Position.IsFinite() {
			shot.Dead = true
			continue
		}
		if Collide(shot.Circle(), BodyCircle(&player.Body)) {
			shot.Dead = true
			res.DamageTaken += player.TakeDamage(shot.Damage, s.world)
			res.Hits++
		}
	}
	return res
}

// ResolveTouch 接触伤害。冷却按怪物实例独立计算，每次调用先推进冷却，
// 不在场的怪物从冷却表中清除
func (s *System) ResolveTouch(dt float64, monsters []*entity.Monster, player *entity.Player) Result {
	var res Result
	s.touch.Tick(dt)

	present := make(map[string]struct{}, len(monsters))
	for _, m := range monsters {
		if targetable(m) {
			present[m.ID] = struct{}{}
		}
	}
	s.touch.Purge(func(id string) bool {
		_, ok := present[id]
		return ok
	})

	if player == nil || player.State == entity.StateDead {
		return res
	}
	pc := BodyCircle(&player.Body)
	for _, m := range monsters {
		if !targetable(m) || m.Damage <= 0 {
			continue
		}
		if !s.touch.Ready(m.ID) {
			continue
		}
		if Collide(BodyCircle(&m.Body), pc) {
			s.touch.Trigger(m.ID)
			res.DamageTaken += player.TakeDamage(m.Damage, s.world)
			res.Hits++
			if player.State == entity.StateDead {
				break
			}
		}
	}
	return res
}
