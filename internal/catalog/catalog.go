// catalog.go

package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownMonster 怪物类型不存在
	ErrUnknownMonster = errors.New("未知的怪物类型")
	// ErrUnknownUpgrade 升级项不存在
	ErrUnknownUpgrade = errors.New("未知的升级项")
	// ErrInvalidCatalog 数值表不完整
	ErrInvalidCatalog = errors.New("数值表无效")
)

// Category 升级类别
type Category string

const (
	// CategoryWeapon 武器
	CategoryWeapon Category = "weapon"
	// CategoryPower 周期性能力
	CategoryPower Category = "power"
	// CategoryPassive 被动属性
	CategoryPassive Category = "passive"
)

// Rarity 稀有度
type Rarity string

const (
	// RarityCommon 普通
	RarityCommon Rarity = "common"
	// RarityUncommon 罕见
	RarityUncommon Rarity = "uncommon"
	// RarityRare 稀有
	RarityRare Rarity = "rare"
)

// Variant 怪物行为变体
type Variant string

const (
	// VariantBasic 普通追击
	VariantBasic Variant = "basic"
	// VariantDasher 冲刺
	VariantDasher Variant = "dasher"
	// VariantCharger 蓄力冲锋
	VariantCharger Variant = "charger"
	// VariantRanged 远程射击
	VariantRanged Variant = "ranged"
	// VariantEnrager 低血狂暴
	VariantEnrager Variant = "enrager"
	// VariantPassive 被动生物(不攻击)
	VariantPassive Variant = "passive"
)

// MonsterCategory 怪物分类，用于弹幕波次筛选
type MonsterCategory string

const (
	MonsterGround MonsterCategory = "ground"
	MonsterFlying MonsterCategory = "flying"
	MonsterUndead MonsterCategory = "undead"
	MonsterPlant  MonsterCategory = "plant"
	MonsterBeast  MonsterCategory = "beast"
)

// MonsterStats 怪物基础数值
type MonsterStats struct {
	ID             string          `mapstructure:"id" json:"id"`
	Name           string          `mapstructure:"name" json:"name"`
	Category       MonsterCategory `mapstructure:"category" json:"category"`
	Variant        Variant         `mapstructure:"variant" json:"variant"`
	Health         float64         `mapstructure:"health" json:"health"`
	Damage         float64         `mapstructure:"damage" json:"damage"`
	Speed          float64         `mapstructure:"speed" json:"speed"` // 每参考帧(1/60秒)移动距离
	AttackRange    float64         `mapstructure:"attack_range" json:"attack_range"`
	DetectionRange float64         `mapstructure:"detection_range" json:"detection_range"`
	AttackCooldown float64         `mapstructure:"attack_cooldown" json:"attack_cooldown"` // 秒
	BaseRadius     float64         `mapstructure:"base_radius" json:"base_radius"`
	RadiusOverride float64         `mapstructure:"radius_override" json:"radius_override,omitempty"` // 0表示不覆盖
	Scale          float64         `mapstructure:"scale" json:"scale"`
	XP             float64         `mapstructure:"xp" json:"xp"`
	DropTable      string          `mapstructure:"drop_table" json:"drop_table"`
	SpawnPenalty   float64         `mapstructure:"spawn_penalty" json:"spawn_penalty"` // 权重乘数，1为无惩罚
}

// VariantTunables 行为变体参数，时间单位统一为秒
type VariantTunables struct {
	DashDistance   float64 `mapstructure:"dash_distance"`
	DashDuration   float64 `mapstructure:"dash_duration"`
	DashCooldown   float64 `mapstructure:"dash_cooldown"`
	DashChance     float64 `mapstructure:"dash_chance"`
	WindupDuration float64 `mapstructure:"windup_duration"`

	EnrageThreshold  float64 `mapstructure:"enrage_threshold"`
	EnrageSpeedMult  float64 `mapstructure:"enrage_speed_mult"`
	EnrageDamageMult float64 `mapstructure:"enrage_damage_mult"`

	ShootRange      float64 `mapstructure:"shoot_range"`
	ShootCooldown   float64 `mapstructure:"shoot_cooldown"`
	ShotSpeed       float64 `mapstructure:"shot_speed"` // 每秒
	ShotRadius      float64 `mapstructure:"shot_radius"`
	ShotLifetime    float64 `mapstructure:"shot_lifetime"`
	RetreatDistance float64 `mapstructure:"retreat_distance"`

	RoamInterval    float64 `mapstructure:"roam_interval"`
	RoamSpeedFactor float64 `mapstructure:"roam_speed_factor"`
	FleeDistance    float64 `mapstructure:"flee_distance"`
}

// SpawnChance 前期波次概率表条目
type SpawnChance struct {
	Monster string  `mapstructure:"monster"`
	Chance  float64 `mapstructure:"chance"`
}

// PackKind 怪物群类型
type PackKind string

const (
	// PackCluster 围绕锚点的簇
	PackCluster PackKind = "cluster"
	// PackLine 从地图边缘冲向玩家的直线队列
	PackLine PackKind = "line"
)

// PackDef 怪物群定义
type PackDef struct {
	ID              string       `mapstructure:"id"`
	Kind            PackKind     `mapstructure:"kind"`
	Monster         string       `mapstructure:"monster"`
	Offsets         [][2]float64 `mapstructure:"offsets"`
	Count           int          `mapstructure:"count"`
	Spacing         float64      `mapstructure:"spacing"`
	LineSpeedFactor float64      `mapstructure:"line_speed_factor"`
}

// PlayerDef 玩家基础数值与等级曲线
type PlayerDef struct {
	BaseHealth          float64 `mapstructure:"base_health"`
	HealthPerLevel      float64 `mapstructure:"health_per_level"`
	BaseDamage          float64 `mapstructure:"base_damage"`
	DamagePerLevel      float64 `mapstructure:"damage_per_level"` // 每级提升比例
	AttackRange         float64 `mapstructure:"attack_range"`
	Speed               float64 `mapstructure:"speed"`
	Radius              float64 `mapstructure:"radius"`
	AttackCooldown      float64 `mapstructure:"attack_cooldown"`
	LevelUpHeal         float64 `mapstructure:"level_up_heal"`
	AttackFrames        int     `mapstructure:"attack_frames"`
	AttackFrameDuration float64 `mapstructure:"attack_frame_duration"`
	ImpactFrames        []int   `mapstructure:"impact_frames"`
	HurtDuration        float64 `mapstructure:"hurt_duration"`
	DeathDuration       float64 `mapstructure:"death_duration"`
	StartingWeapon      string  `mapstructure:"starting_weapon"`
}

// DraftWeights 升级抽选权重
type DraftWeights struct {
	WeaponNew      float64            `mapstructure:"weapon_new"`
	WeaponUpgrade  float64            `mapstructure:"weapon_upgrade"`
	PowerNew       float64            `mapstructure:"power_new"`
	PowerUpgrade   float64            `mapstructure:"power_upgrade"`
	PassiveNew     float64            `mapstructure:"passive_new"`
	PassiveUpgrade float64            `mapstructure:"passive_upgrade"`
	EarlyNewBias   float64            `mapstructure:"early_new_bias"`
	Rarity         map[Rarity]float64 `mapstructure:"rarity"`
	MaxWeapons     int                `mapstructure:"max_weapons"`
	MaxPowers      int                `mapstructure:"max_powers"`
	EarlyLevels    int                `mapstructure:"early_levels"`
}

// Catalog 全部静态数值表，加载后只读
type Catalog struct {
	Player          PlayerDef
	Monsters        map[string]*MonsterStats
	MonsterOrder    []string // 解锁顺序，越靠后越晚解锁
	PassiveCreature string
	Variants        map[Variant]VariantTunables
	EarlyWaves      [][]SpawnChance // 下标为 wave-1
	Packs           map[string]*PackDef
	Upgrades        map[string]*UpgradeDef
	UpgradeOrder    []string
	Draft           DraftWeights
}

// Monster 按ID获取怪物数值
func (c *Catalog) Monster(id string) (*MonsterStats, error) {
	m, ok := c.Monsters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMonster, id)
	}
	return m, nil
}

// Upgrade 按ID获取升级定义
func (c *Catalog) Upgrade(id string) (*UpgradeDef, error) {
	u, ok := c.Upgrades[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUpgrade, id)
	}
	return u, nil
}

// Tunables 获取变体参数，未配置时返回零值
func (c *Catalog) Tunables(v Variant) VariantTunables {
	return c.Variants[v]
}

// UpgradesOf 按声明顺序返回某类别的全部升级
func (c *Catalog) UpgradesOf(cat Category) []*UpgradeDef {
	out := make([]*UpgradeDef, 0)
	for _, id := range c.UpgradeOrder {
		if u := c.Upgrades[id]; u != nil && u.Category == cat {
			out = append(out, u)
		}
	}
	return out
}

// MonstersIn 返回某分类下按解锁顺序排列的怪物ID
func (c *Catalog) MonstersIn(cat MonsterCategory) []string {
	out := make([]string, 0)
	for _, id := range c.MonsterOrder {
		if m := c.Monsters[id]; m != nil && m.Category == cat {
			out = append(out, id)
		}
	}
	return out
}

// Validate 校验数值表完整性，缺失必需数据时返回错误
func (c *Catalog) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(c.MonsterOrder) == 0 {
		add("怪物解锁顺序为空")
	}
	for _, id := range c.MonsterOrder {
		m, ok := c.Monsters[id]
		if !ok {
			add("解锁顺序引用了不存在的怪物 %s", id)
			continue
		}
		if m.Health <= 0 {
			add("怪物 %s 生命值必须大于0", id)
		}
		if m.BaseRadius <= 0 && m.RadiusOverride <= 0 {
			add("怪物 %s 缺少碰撞半径", id)
		}
		if _, ok := c.Variants[m.Variant]; !ok {
			add("怪物 %s 的行为变体 %s 没有参数", id, m.Variant)
		}
	}
	if c.PassiveCreature != "" {
		if _, ok := c.Monsters[c.PassiveCreature]; !ok {
			add("被动生物 %s 不存在", c.PassiveCreature)
		}
	}
	for i, table := range c.EarlyWaves {
		if len(table) == 0 {
			add("第 %d 波概率表为空", i+1)
		}
		for _, e := range table {
			if _, ok := c.Monsters[e.Monster]; !ok {
				add("第 %d 波概率表引用了不存在的怪物 %s", i+1, e.Monster)
			}
		}
	}
	for id, p := range c.Packs {
		if _, ok := c.Monsters[p.Monster]; !ok {
			add("怪物群 %s 引用了不存在的怪物 %s", id, p.Monster)
		}
		if p.Kind == PackCluster && len(p.Offsets) == 0 {
			add("怪物群 %s 缺少偏移", id)
		}
		if p.Kind == PackLine && p.Count <= 0 {
			add("怪物群 %s 数量必须大于0", id)
		}
	}

	if c.Player.BaseHealth <= 0 {
		add("玩家基础生命值必须大于0")
	}
	if c.Player.AttackFrames <= 0 {
		add("玩家攻击帧数必须大于0")
	}
	for _, f := range c.Player.ImpactFrames {
		if f < 0 || f >= c.Player.AttackFrames {
			add("判定帧 %d 超出攻击帧范围", f)
		}
	}
	if w := c.Player.StartingWeapon; w != "" {
		if u, ok := c.Upgrades[w]; !ok || u.Category != CategoryWeapon {
			add("初始武器 %s 不存在", w)
		}
	}

	for _, id := range c.UpgradeOrder {
		u, ok := c.Upgrades[id]
		if !ok {
			add("升级顺序引用了不存在的升级 %s", id)
			continue
		}
		if err := u.validate(); err != nil {
			add("%v", err)
		}
		if u.RequiresWeapon != "" {
			if w, ok := c.Upgrades[u.RequiresWeapon]; !ok || w.Category != CategoryWeapon {
				add("升级 %s 依赖的武器 %s 不存在", id, u.RequiresWeapon)
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, problems)
	}
	return nil
}
