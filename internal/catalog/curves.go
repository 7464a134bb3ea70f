package catalog

import "math"

// XPNeeded 升到下一级所需经验 floor(5 + 3L + L^1.7)
func XPNeeded(level int) float64 {
	if level < 1 {
		level = 1
	}
	l := float64(level)
	return math.Floor(5 + 3*l + math.Pow(l, 1.7))
}

// PlayerMaxHealth 指定等级的玩家基础最大生命值
func (c *Catalog) PlayerMaxHealth(level int) float64 {
	if level < 1 {
		level = 1
	}
	return c.Player.BaseHealth + float64(level-1)*c.Player.HealthPerLevel
}

// PlayerBaseDamage 指定等级的玩家基础伤害
func (c *Catalog) PlayerBaseDamage(level int) float64 {
	if level < 1 {
		level = 1
	}
	return c.Player.BaseDamage * (1 + float64(level-1)*c.Player.DamagePerLevel)
}

// AllUpgrades 按声明顺序返回全部升级定义
func (c *Catalog) AllUpgrades() []*UpgradeDef {
	out := make([]*UpgradeDef, 0, len(c.UpgradeOrder))
	for _, id := range c.UpgradeOrder {
		if u := c.Upgrades[id]; u != nil {
			out = append(out, u)
		}
	}
	return out
}

// AllMonsters 按解锁顺序返回全部怪物数值，被动生物排在最后
func (c *Catalog) AllMonsters() []*MonsterStats {
	out := make([]*MonsterStats, 0, len(c.MonsterOrder)+1)
	for _, id := range c.MonsterOrder {
		if m := c.Monsters[id]; m != nil {
			out = append(out, m)
		}
	}
	if m := c.Monsters[c.PassiveCreature]; m != nil {
		out = append(out, m)
	}
	return out
}
