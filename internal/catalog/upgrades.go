// upgrades.go

package catalog

import (
	"fmt"
)

// 武器行为标签
const (
	BehaviorProjectile = "projectile"
	BehaviorOrbital    = "orbital"
	BehaviorArea       = "area"
)

// 能力效果标签
const (
	PowerHeal   = "heal"
	PowerStrike = "strike"
	PowerNova   = "nova"
)

// 被动属性目标
const (
	StatDamage            = "damage"
	StatMoveSpeed         = "move_speed"
	StatCooldown          = "cooldown"
	StatArmor             = "armor"
	StatProjectileSpeed   = "projectile_speed"
	StatProjectileCount   = "projectile_count"
	StatPierce            = "pierce"
	StatMaxHealth         = "max_health"
	StatWeaponProjectiles = "weapon_projectiles"
	StatWeaponPierce      = "weapon_pierce"
)

// Scaling 每级数值表，下标为 level-1
type Scaling struct {
	Damage   []float64 `mapstructure:"damage" json:"damage,omitempty"`
	Cooldown []float64 `mapstructure:"cooldown" json:"cooldown,omitempty"`
	Radius   []float64 `mapstructure:"radius" json:"radius,omitempty"`
	Duration []float64 `mapstructure:"duration" json:"duration,omitempty"`
	Speed    []float64 `mapstructure:"speed" json:"speed,omitempty"`
	Count    []float64 `mapstructure:"count" json:"count,omitempty"`
	Pierce   []float64 `mapstructure:"pierce" json:"pierce,omitempty"`
	TickRate []float64 `mapstructure:"tick_rate" json:"tick_rate,omitempty"`
	Amount   []float64 `mapstructure:"amount" json:"amount,omitempty"` // 被动每级增量
}

// UpgradeDef 升级定义
type UpgradeDef struct {
	ID             string   `mapstructure:"id" json:"id"`
	Name           string   `mapstructure:"name" json:"name"`
	Description    string   `mapstructure:"description" json:"description"`
	Category       Category `mapstructure:"category" json:"category"`
	Rarity         Rarity   `mapstructure:"rarity" json:"rarity"`
	MaxLevel       int      `mapstructure:"max_level" json:"max_level"`
	Behavior       string   `mapstructure:"behavior" json:"behavior,omitempty"`
	Stat           string   `mapstructure:"stat" json:"stat,omitempty"`
	RequiresWeapon string   `mapstructure:"requires_weapon" json:"requires_weapon,omitempty"`
	Scaling        Scaling  `mapstructure:"scaling" json:"scaling"`
}

// At 读取某级数值，数组为空时返回0，越界时取最后一项
func At(values []float64, level int) float64 {
	if len(values) == 0 {
		return 0
	}
	i := level - 1
	if i < 0 {
		i = 0
	}
	if i >= len(values) {
		i = len(values) - 1
	}
	return values[i]
}

func (u *UpgradeDef) validate() error {
	if u.MaxLevel <= 0 {
		return fmt.Errorf("升级 %s 最大等级必须大于0", u.ID)
	}
	arrays := map[string][]float64{
		"damage":    u.Scaling.Damage,
		"cooldown":  u.Scaling.Cooldown,
		"radius":    u.Scaling.Radius,
		"duration":  u.Scaling.Duration,
		"speed":     u.Scaling.Speed,
		"count":     u.Scaling.Count,
		"pierce":    u.Scaling.Pierce,
		"tick_rate": u.Scaling.TickRate,
		"amount":    u.Scaling.Amount,
	}
	for name, arr := range arrays {
		if len(arr) > 0 && len(arr) < u.MaxLevel {
			return fmt.Errorf("升级 %s 的 %s 数值表长度 %d 小于最大等级 %d", u.ID, name, len(arr), u.MaxLevel)
		}
	}

	switch u.Category {
	case CategoryWeapon:
		if len(u.Scaling.Damage) == 0 || len(u.Scaling.Cooldown) == 0 {
			return fmt.Errorf("武器 %s 缺少伤害或冷却数值表", u.ID)
		}
		switch u.Behavior {
		case BehaviorProjectile, BehaviorOrbital, BehaviorArea:
		default:
			return fmt.Errorf("武器 %s 行为 %q 无效", u.ID, u.Behavior)
		}
	case CategoryPower:
		if len(u.Scaling.Cooldown) == 0 {
			return fmt.Errorf("能力 %s 缺少间隔数值表", u.ID)
		}
		switch u.Behavior {
		case PowerHeal, PowerStrike, PowerNova:
		default:
			return fmt.Errorf("能力 %s 效果 %q 无效", u.ID, u.Behavior)
		}
	case CategoryPassive:
		if len(u.Scaling.Amount) == 0 {
			return fmt.Errorf("被动 %s 缺少增量数值表", u.ID)
		}
		if u.Stat == "" {
			return fmt.Errorf("被动 %s 缺少属性目标", u.ID)
		}
	default:
		return fmt.Errorf("升级 %s 类别 %q 无效", u.ID, u.Category)
	}
	return nil
}
