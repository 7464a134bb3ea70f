// powerup.go

package progression

import (
	"log"
	"math"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
)

// PowerUp 玩家持有的升级实例，每个ID只有一个
type PowerUp struct {
	Def   *catalog.UpgradeDef
	Level int
}

// ID 升级ID
func (u *PowerUp) ID() string {
	return u.Def.ID
}

// IsMaxed 是否已满级
func (u *PowerUp) IsMaxed() bool {
	return u.Level >= u.Def.MaxLevel
}

// LevelUp 升一级并以新等级应用一次效果，满级时不做任何事
func (u *PowerUp) LevelUp(p *entity.Player) bool {
	if u.IsMaxed() {
		return false
	}
	u.Level++
	p.Owned[u.Def.ID] = u.Level

	switch u.Def.Category {
	case catalog.CategoryWeapon:
		applyWeapon(p, u.Def, u.Level)
	case catalog.CategoryPower:
		applyPower(p, u.Def, u.Level)
	case catalog.CategoryPassive:
		applyPassive(p, u.Def, u.Level)
	}
	return true
}

// applyWeapon 按等级与当前属性重算武器槽位，保留计时器
func applyWeapon(p *entity.Player, def *catalog.UpgradeDef, level int) {
	sc := def.Scaling
	bonus := p.WeaponStats[def.ID]

	slot := entity.WeaponSlot{
		ID:       def.ID,
		Level:    level,
		Behavior: def.Behavior,
		Damage:   catalog.At(sc.Damage, level) * p.Stats.DamageMult,
		Area:     catalog.At(sc.Radius, level),
		Cooldown: p.EffectiveCooldown(catalog.At(sc.Cooldown, level)),
		Speed:    catalog.At(sc.Speed, level),
		Duration: catalog.At(sc.Duration, level),
		Count:    int(catalog.At(sc.Count, level)),
		Pierce:   int(catalog.At(sc.Pierce, level)),
	}

	switch def.Behavior {
	case catalog.BehaviorProjectile:
		slot.Speed *= p.Stats.ProjectileSpeedMult
		slot.Count += p.Stats.ProjectileCount + bonus.ExtraProjectiles
		slot.Pierce += p.Stats.Pierce + bonus.ExtraPierce
	case catalog.BehaviorOrbital:
		slot.Count += p.Stats.ProjectileCount + bonus.ExtraProjectiles
	}
	if slot.Count < 1 {
		slot.Count = 1
	}

	for i := range p.Weapons {
		if p.Weapons[i].ID == def.ID {
			slot.Timer = p.Weapons[i].Timer
			p.Weapons[i] = slot
			return
		}
	}
	p.Weapons = append(p.Weapons, slot)
}

// applyPower 按ID替换能力条目
func applyPower(p *entity.Player, def *catalog.UpgradeDef, level int) {
	sc := def.Scaling
	slot := entity.PowerSlot{
		ID:       def.ID,
		Level:    level,
		Effect:   def.Behavior,
		Interval: p.EffectiveCooldown(catalog.At(sc.Cooldown, level)),
		Amount:   catalog.At(sc.Amount, level),
		Damage:   catalog.At(sc.Damage, level) * p.Stats.DamageMult,
		Radius:   catalog.At(sc.Radius, level),
		Count:    int(math.Max(1, catalog.At(sc.Count, level))),
	}

	for i := range p.Powers {
		if p.Powers[i].ID == def.ID {
			slot.Timer = p.Powers[i].Timer
			p.Powers[i] = slot
			return
		}
	}
	p.Powers = append(p.Powers, slot)
}

// applyPassive 把该等级的增量累加到属性上
func applyPassive(p *entity.Player, def *catalog.UpgradeDef, level int) {
	amount := catalog.At(def.Scaling.Amount, level)

	switch def.Stat {
	case catalog.StatDamage:
		p.Stats.DamageMult += amount
	case catalog.StatMoveSpeed:
		p.Stats.MoveSpeedMult += amount
	case catalog.StatCooldown:
		p.Stats.CooldownReduction += amount
	case catalog.StatArmor:
		p.Stats.Armor += amount
	case catalog.StatProjectileSpeed:
		p.Stats.ProjectileSpeedMult += amount
	case catalog.StatProjectileCount:
		p.Stats.ProjectileCount += int(amount)
	case catalog.StatPierce:
		p.Stats.Pierce += int(amount)
	case catalog.StatMaxHealth:
		p.Stats.MaxHealthBonus += amount
		p.MaxHealth += amount
		p.Heal(amount)
	case catalog.StatWeaponProjectiles:
		b := p.WeaponStats[def.RequiresWeapon]
		b.ExtraProjectiles += int(amount)
		p.WeaponStats[def.RequiresWeapon] = b
	case catalog.StatWeaponPierce:
		b := p.WeaponStats[def.RequiresWeapon]
		b.ExtraPierce += int(amount)
		p.WeaponStats[def.RequiresWeapon] = b
	default:
		log.Printf("被动 %s 的属性目标 %q 未知，已忽略", def.ID, def.Stat)
	}
}
