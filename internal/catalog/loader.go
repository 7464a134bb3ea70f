// loader.go

package catalog

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/viper"
)

// Load 加载数值表，以内置表为基础，path 指向的 YAML 文件中出现的条目覆盖同名条目
// path 为空时只使用内置表
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取数值表文件失败: %w", err)
	}

	if err := mergeCatalog(v, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log.Printf("数值表已加载: %s (怪物 %d 种, 升级 %d 项)", path, len(c.Monsters), len(c.Upgrades))
	return c, nil
}

func mergeCatalog(v *viper.Viper, c *Catalog) error {
	if v.IsSet("player") {
		if v.IsSet("player.impact_frames") {
			c.Player.ImpactFrames = nil
		}
		if err := v.UnmarshalKey("player", &c.Player); err != nil {
			return fmt.Errorf("解析玩家数值失败: %w", err)
		}
	}

	for _, id := range sortedKeys(v.GetStringMap("monsters")) {
		m := MonsterStats{ID: id, Scale: 1, SpawnPenalty: 1}
		if existing, ok := c.Monsters[id]; ok {
			m = *existing
		}
		if err := v.UnmarshalKey("monsters."+id, &m); err != nil {
			return fmt.Errorf("解析怪物 %s 失败: %w", id, err)
		}
		m.ID = id
		if _, ok := c.Monsters[id]; !ok && m.Variant != VariantPassive {
			c.MonsterOrder = append(c.MonsterOrder, id)
		}
		c.Monsters[id] = &m
	}
	if v.IsSet("passive_creature") {
		c.PassiveCreature = v.GetString("passive_creature")
	}

	for _, name := range sortedKeys(v.GetStringMap("variants")) {
		t := c.Variants[Variant(name)]
		if err := v.UnmarshalKey("variants."+name, &t); err != nil {
			return fmt.Errorf("解析行为变体 %s 失败: %w", name, err)
		}
		c.Variants[Variant(name)] = t
	}

	if v.IsSet("early_waves") {
		var waves [][]SpawnChance
		if err := v.UnmarshalKey("early_waves", &waves); err != nil {
			return fmt.Errorf("解析前期波次表失败: %w", err)
		}
		c.EarlyWaves = waves
	}

	for _, id := range sortedKeys(v.GetStringMap("packs")) {
		p := PackDef{ID: id}
		if existing, ok := c.Packs[id]; ok {
			p = *existing
		}
		if v.IsSet("packs." + id + ".offsets") {
			p.Offsets = nil
		}
		if err := v.UnmarshalKey("packs."+id, &p); err != nil {
			return fmt.Errorf("解析怪物群 %s 失败: %w", id, err)
		}
		p.ID = id
		c.Packs[id] = &p
	}

	for _, id := range sortedKeys(v.GetStringMap("upgrades")) {
		u := UpgradeDef{ID: id}
		existing, ok := c.Upgrades[id]
		if ok {
			u = *existing
		}
		if v.IsSet("upgrades." + id + ".scaling") {
			u.Scaling = Scaling{}
		}
		if err := v.UnmarshalKey("upgrades."+id, &u); err != nil {
			return fmt.Errorf("解析升级 %s 失败: %w", id, err)
		}
		u.ID = id
		if !ok {
			c.UpgradeOrder = append(c.UpgradeOrder, id)
		}
		c.Upgrades[id] = &u
	}

	if v.IsSet("draft") {
		if err := v.UnmarshalKey("draft", &c.Draft); err != nil {
			return fmt.Errorf("解析抽选权重失败: %w", err)
		}
	}
	return nil
}

// sortedKeys 配置文件中 map 的遍历顺序不固定，新条目按字母序追加
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
