// weapons.go

package game

import (
	"math"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/combat"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

const (
	// projectileSpread 多发投射物之间的夹角(弧度)
	projectileSpread = 0.15
	// orbitalRadius 环绕物碰撞半径
	orbitalRadius = 12
	// defaultTargetRange 投射物索敌范围
	defaultTargetRange = 700
)

// fireWeapons 把触发的武器转为投射物、环绕物或范围伤害
func (s *Simulation) fireWeapons(fired []entity.WeaponSlot) {
	p := s.player
	for _, w := range fired {
		switch w.Behavior {
		case catalog.BehaviorProjectile:
			dir := p.Facing.Vector()
			rng := w.Speed * w.Duration
			if rng <= 0 {
				rng = defaultTargetRange
			}
			if target := s.grid.Nearest(p.Position, rng); target != nil {
				if d := target.Position.Sub(p.Position); d.LenSq() > 0 {
					dir = d.Normalize()
				}
			}
			for i := 0; i < w.Count; i++ {
				offset := (float64(i) - float64(w.Count-1)/2) * projectileSpread
				s.projectiles = append(s.projectiles, combat.NewProjectile(
					w.ID, p.Position, combat.RotateVector(dir, offset),
					w.Speed, w.Area, w.Damage, w.Pierce, w.Duration,
				))
			}

		case catalog.BehaviorOrbital:
			step := 2 * math.Pi / float64(w.Count)
			for i := 0; i < w.Count; i++ {
				s.orbitals = append(s.orbitals, combat.NewOrbital(
					w.ID, p.Position, step*float64(i), w.Speed, w.Area, orbitalRadius, w.Damage, w.Duration,
				))
			}

		case catalog.BehaviorArea:
			s.damageArea(p.Position, w.Area, w.Damage)
		}
	}
}

// firePowers 周期性能力生效
func (s *Simulation) firePowers(fired []entity.PowerSlot) {
	p := s.player
	for _, pw := range fired {
		switch pw.Effect {
		case catalog.PowerHeal:
			p.Heal(pw.Amount)
		case catalog.PowerStrike:
			targets := s.livingNear(p.Position, pw.Radius)
			s.rng.Shuffle(len(targets), func(i, j int) {
				targets[i], targets[j] = targets[j], targets[i]
			})
			for i := 0; i < pw.Count && i < len(targets); i++ {
				targets[i].TakeDamage(pw.Damage, s.world)
			}
		case catalog.PowerNova:
			s.damageArea(p.Position, pw.Radius, pw.Damage)
		}
	}
}

// damageArea 对范围内全部怪物造成伤害
func (s *Simulation) damageArea(center models.Vector2D, radius, damage float64) {
	area := combat.Circle{Center: center, Radius: radius}
	for _, m := range s.livingNear(center, radius+64) {
		if combat.Collide(area, combat.BodyCircle(&m.Body)) {
			m.TakeDamage(damage, s.world)
		}
	}
}

func (s *Simulation) livingNear(center models.Vector2D, radius float64) []*entity.Monster {
	var out []*entity.Monster
	for _, m := range s.grid.Nearby(center, radius, nil) {
		if m.State != entity.StateDead && !m.IsRemovable() {
			out = append(out, m)
		}
	}
	return out
}
