// defaults.go

package catalog

// 内置数值表

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// everyNth 每 n 级给一次增量，其余等级为0
func everyNth(v float64, n, levels int) []float64 {
	out := make([]float64, levels)
	for i := range out {
		if (i+1)%n == 1 || n == 1 {
			out[i] = v
		}
	}
	return out
}

// Default 返回内置数值表
func Default() *Catalog {
	c := &Catalog{
		Player:          defaultPlayer(),
		Monsters:        make(map[string]*MonsterStats),
		Variants:        defaultVariants(),
		Packs:           make(map[string]*PackDef),
		Upgrades:        make(map[string]*UpgradeDef),
		PassiveCreature: "rabbit",
		Draft: DraftWeights{
			WeaponNew:      3.0,
			WeaponUpgrade:  4.0,
			PowerNew:       2.5,
			PowerUpgrade:   3.0,
			PassiveNew:     2.0,
			PassiveUpgrade: 2.5,
			EarlyNewBias:   3.0,
			Rarity: map[Rarity]float64{
				RarityCommon:   1.0,
				RarityUncommon: 0.7,
				RarityRare:     0.4,
			},
			MaxWeapons:  4,
			MaxPowers:   3,
			EarlyLevels: 3,
		},
	}

	for _, m := range defaultMonsters() {
		m := m
		c.Monsters[m.ID] = &m
		if m.Variant != VariantPassive {
			c.MonsterOrder = append(c.MonsterOrder, m.ID)
		}
	}

	c.EarlyWaves = [][]SpawnChance{
		{{"slime", 0.7}, {"bat", 0.3}},
		{{"slime", 0.5}, {"bat", 0.35}, {"skeleton", 0.15}},
		{{"slime", 0.35}, {"bat", 0.3}, {"skeleton", 0.25}, {"goblin", 0.1}},
		{{"slime", 0.25}, {"bat", 0.25}, {"skeleton", 0.25}, {"goblin", 0.15}, {"plant", 0.1}},
		{{"slime", 0.2}, {"bat", 0.2}, {"skeleton", 0.25}, {"goblin", 0.2}, {"plant", 0.1}, {"wolf", 0.05}},
	}

	c.Packs["plant_cluster"] = &PackDef{
		ID:      "plant_cluster",
		Kind:    PackCluster,
		Monster: "plant",
		Offsets: [][2]float64{{0, 0}, {40, 0}, {-40, 0}, {0, 40}, {0, -40}, {28, 28}, {-28, -28}},
	}
	c.Packs["vampire_line"] = &PackDef{
		ID:              "vampire_line",
		Kind:            PackLine,
		Monster:         "vampire",
		Count:           6,
		Spacing:         36,
		LineSpeedFactor: 2.0,
	}

	for _, u := range defaultUpgrades() {
		u := u
		c.Upgrades[u.ID] = &u
		c.UpgradeOrder = append(c.UpgradeOrder, u.ID)
	}
	return c
}

func defaultPlayer() PlayerDef {
	return PlayerDef{
		BaseHealth:          100,
		HealthPerLevel:      8,
		BaseDamage:          20,
		DamagePerLevel:      0.05,
		AttackRange:         80,
		Speed:               3.0,
		Radius:              16,
		AttackCooldown:      0.6,
		LevelUpHeal:         10,
		AttackFrames:        6,
		AttackFrameDuration: 0.06,
		ImpactFrames:        []int{2, 3},
		HurtDuration:        0.25,
		DeathDuration:       1.0,
		StartingWeapon:      "magic_bolt",
	}
}

func defaultVariants() map[Variant]VariantTunables {
	return map[Variant]VariantTunables{
		VariantBasic: {},
		VariantDasher: {
			DashDistance: 160,
			DashDuration: 0.25,
			DashCooldown: 3.0,
			DashChance:   0.35,
		},
		VariantCharger: {
			DashDistance:   260,
			DashDuration:   0.4,
			DashCooldown:   5.0,
			DashChance:     0.5,
			WindupDuration: 0.6,
		},
		VariantRanged: {
			ShootRange:      320,
			ShootCooldown:   2.2,
			ShotSpeed:       240,
			ShotRadius:      6,
			ShotLifetime:    3.0,
			RetreatDistance: 120,
		},
		VariantEnrager: {
			EnrageThreshold:  0.4,
			EnrageSpeedMult:  1.5,
			EnrageDamageMult: 1.5,
		},
		VariantPassive: {
			RoamInterval:    2.0,
			RoamSpeedFactor: 0.5,
			FleeDistance:    220,
		},
	}
}

func defaultMonsters() []MonsterStats {
	base := func(id, name string, cat MonsterCategory, v Variant, hp, dmg, speed, radius, xp, penalty float64) MonsterStats {
		return MonsterStats{
			ID:             id,
			Name:           name,
			Category:       cat,
			Variant:        v,
			Health:         hp,
			Damage:         dmg,
			Speed:          speed,
			AttackRange:    radius + 28,
			DetectionRange: 900,
			AttackCooldown: 1.2,
			BaseRadius:     radius,
			Scale:          1,
			XP:             xp,
			DropTable:      "common",
			SpawnPenalty:   penalty,
		}
	}

	monsters := []MonsterStats{
		base("slime", "史莱姆", MonsterGround, VariantBasic, 30, 5, 0.8, 14, 1, 0.5),
		base("bat", "蝙蝠", MonsterFlying, VariantDasher, 18, 4, 1.6, 10, 1, 0.7),
		base("skeleton", "骷髅兵", MonsterUndead, VariantBasic, 50, 8, 1.0, 16, 2, 1),
		base("goblin", "哥布林", MonsterGround, VariantDasher, 40, 7, 1.2, 15, 2, 1),
		base("plant", "食人花", MonsterPlant, VariantRanged, 45, 6, 0.3, 18, 2, 0.6),
		base("wolf", "恶狼", MonsterBeast, VariantCharger, 60, 10, 1.4, 18, 3, 1),
		base("orc", "兽人", MonsterGround, VariantEnrager, 90, 12, 0.9, 20, 4, 1),
		base("vampire", "吸血鬼", MonsterUndead, VariantDasher, 70, 12, 1.3, 16, 4, 0.7),
		base("skeleton_archer", "骷髅弓手", MonsterUndead, VariantRanged, 45, 9, 0.9, 16, 3, 0.8),
		base("golem", "石像魔", MonsterGround, VariantEnrager, 200, 18, 0.6, 28, 8, 0.5),
		base("wraith", "怨灵", MonsterFlying, VariantDasher, 80, 14, 1.5, 16, 5, 0.8),
		base("minotaur", "牛头人", MonsterBeast, VariantCharger, 180, 20, 1.1, 26, 8, 0.5),
		base("necromancer", "死灵法师", MonsterUndead, VariantRanged, 110, 15, 0.8, 18, 7, 0.6),
		base("demon", "恶魔", MonsterFlying, VariantEnrager, 250, 25, 1.0, 24, 10, 0.4),
		base("rabbit", "金兔", MonsterBeast, VariantPassive, 10, 0, 1.2, 10, 5, 1),
	}
	for i := range monsters {
		switch monsters[i].ID {
		case "rabbit":
			monsters[i].DropTable = "treasure"
			monsters[i].AttackRange = 0
		case "golem", "minotaur", "demon":
			monsters[i].DropTable = "elite"
			monsters[i].AttackCooldown = 1.8
		case "plant":
			monsters[i].RadiusOverride = 16
		}
	}
	return monsters
}

func defaultUpgrades() []UpgradeDef {
	const passiveLevels = 12

	return []UpgradeDef{
		// 武器
		{
			ID: "magic_bolt", Name: "魔法飞弹", Description: "向最近的敌人发射追踪飞弹",
			Category: CategoryWeapon, Rarity: RarityCommon, MaxLevel: 5, Behavior: BehaviorProjectile,
			Scaling: Scaling{
				Damage:   []float64{10, 13, 16, 20, 25},
				Cooldown: []float64{1.2, 1.1, 1.0, 0.9, 0.8},
				Speed:    []float64{300, 300, 330, 330, 360},
				Count:    []float64{1, 1, 2, 2, 3},
				Pierce:   []float64{0, 0, 1, 1, 2},
				Radius:   []float64{6, 6, 7, 7, 8},
				Duration: []float64{2, 2, 2, 2.5, 2.5},
			},
		},
		{
			ID: "knives", Name: "飞刀", Description: "沿朝向投掷穿透飞刀",
			Category: CategoryWeapon, Rarity: RarityCommon, MaxLevel: 5, Behavior: BehaviorProjectile,
			Scaling: Scaling{
				Damage:   []float64{6, 8, 10, 12, 15},
				Cooldown: []float64{0.8, 0.75, 0.7, 0.65, 0.6},
				Speed:    []float64{420, 420, 450, 450, 480},
				Count:    []float64{2, 2, 3, 3, 4},
				Pierce:   []float64{1, 1, 1, 2, 2},
				Radius:   repeat(5, 5),
				Duration: repeat(1.2, 5),
			},
		},
		{
			ID: "orbit_blades", Name: "环刃", Description: "围绕自身旋转的刀刃",
			Category: CategoryWeapon, Rarity: RarityUncommon, MaxLevel: 5, Behavior: BehaviorOrbital,
			Scaling: Scaling{
				Damage:   []float64{8, 10, 12, 15, 18},
				Cooldown: []float64{4, 4, 3.5, 3.5, 3},
				Radius:   []float64{70, 75, 80, 85, 90},
				Speed:    []float64{3, 3.2, 3.4, 3.6, 4},
				Count:    []float64{2, 2, 3, 3, 4},
				Duration: []float64{3, 3, 3.5, 3.5, 4},
			},
		},
		{
			ID: "holy_ring", Name: "圣环", Description: "以自身为中心释放伤害光环",
			Category: CategoryWeapon, Rarity: RarityUncommon, MaxLevel: 5, Behavior: BehaviorArea,
			Scaling: Scaling{
				Damage:   []float64{12, 15, 18, 22, 28},
				Cooldown: []float64{3, 2.8, 2.6, 2.4, 2.2},
				Radius:   []float64{100, 110, 120, 130, 150},
			},
		},

		// 能力
		{
			ID: "regeneration", Name: "再生", Description: "周期性恢复生命",
			Category: CategoryPower, Rarity: RarityCommon, MaxLevel: 5, Behavior: PowerHeal,
			Scaling: Scaling{
				Amount:   []float64{2, 3, 4, 5, 6},
				Cooldown: []float64{5, 4.5, 4, 3.5, 3},
			},
		},
		{
			ID: "lightning", Name: "落雷", Description: "周期性劈中附近的敌人",
			Category: CategoryPower, Rarity: RarityUncommon, MaxLevel: 5, Behavior: PowerStrike,
			Scaling: Scaling{
				Damage:   []float64{25, 32, 40, 50, 60},
				Cooldown: []float64{3, 2.8, 2.6, 2.4, 2},
				Count:    []float64{1, 1, 2, 2, 3},
				Radius:   []float64{450, 450, 500, 500, 550},
			},
		},
		{
			ID: "frost_nova", Name: "冰霜新星", Description: "周期性冻伤周围所有敌人",
			Category: CategoryPower, Rarity: RarityRare, MaxLevel: 5, Behavior: PowerNova,
			Scaling: Scaling{
				Damage:   []float64{15, 20, 25, 30, 40},
				Cooldown: []float64{6, 5.5, 5, 4.5, 4},
				Radius:   []float64{150, 160, 170, 185, 200},
			},
		},

		// 被动
		{
			ID: "might", Name: "力量", Description: "伤害提升8%",
			Category: CategoryPassive, Rarity: RarityCommon, MaxLevel: passiveLevels, Stat: StatDamage,
			Scaling: Scaling{Amount: repeat(0.08, passiveLevels)},
		},
		{
			ID: "swiftness", Name: "迅捷", Description: "移动速度提升5%",
			Category: CategoryPassive, Rarity: RarityCommon, MaxLevel: passiveLevels, Stat: StatMoveSpeed,
			Scaling: Scaling{Amount: repeat(0.05, passiveLevels)},
		},
		{
			ID: "haste", Name: "急速", Description: "冷却缩减4%",
			Category: CategoryPassive, Rarity: RarityUncommon, MaxLevel: passiveLevels, Stat: StatCooldown,
			Scaling: Scaling{Amount: repeat(0.04, passiveLevels)},
		},
		{
			ID: "armor", Name: "护甲", Description: "受到的伤害减少1点",
			Category: CategoryPassive, Rarity: RarityCommon, MaxLevel: passiveLevels, Stat: StatArmor,
			Scaling: Scaling{Amount: repeat(1, passiveLevels)},
		},
		{
			ID: "velocity", Name: "疾风", Description: "投射物速度提升10%",
			Category: CategoryPassive, Rarity: RarityCommon, MaxLevel: passiveLevels, Stat: StatProjectileSpeed,
			Scaling: Scaling{Amount: repeat(0.1, passiveLevels)},
		},
		{
			ID: "multishot", Name: "多重射击", Description: "投射物数量增加",
			Category: CategoryPassive, Rarity: RarityRare, MaxLevel: passiveLevels, Stat: StatProjectileCount,
			Scaling: Scaling{Amount: everyNth(1, 3, passiveLevels)},
		},
		{
			ID: "piercing", Name: "穿刺", Description: "投射物穿透次数增加",
			Category: CategoryPassive, Rarity: RarityRare, MaxLevel: passiveLevels, Stat: StatPierce,
			Scaling: Scaling{Amount: everyNth(1, 2, passiveLevels)},
		},
		{
			ID: "vitality", Name: "活力", Description: "最大生命值提升10点",
			Category: CategoryPassive, Rarity: RarityUncommon, MaxLevel: passiveLevels, Stat: StatMaxHealth,
			Scaling: Scaling{Amount: repeat(10, passiveLevels)},
		},
		{
			ID: "knife_mastery", Name: "飞刀精通", Description: "飞刀数量增加",
			Category: CategoryPassive, Rarity: RarityUncommon, MaxLevel: passiveLevels, Stat: StatWeaponProjectiles,
			RequiresWeapon: "knives",
			Scaling:        Scaling{Amount: everyNth(1, 4, passiveLevels)},
		},
		{
			ID: "bolt_focus", Name: "飞弹专注", Description: "魔法飞弹穿透次数增加",
			Category: CategoryPassive, Rarity: RarityUncommon, MaxLevel: passiveLevels, Stat: StatWeaponPierce,
			RequiresWeapon: "magic_bolt",
			Scaling:        Scaling{Amount: everyNth(1, 3, passiveLevels)},
		},
	}
}
