// draft.go

package progression

import (
	"math/rand"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
)

// DraftSize 每次升级提供的候选数
const DraftSize = 3

// Card 升级候选卡片
type Card struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    catalog.Category `json:"category"`
	Rarity      catalog.Rarity   `json:"rarity"`
	Level       int              `json:"level"` // 选择后的等级
	New         bool             `json:"new"`
}

type candidate struct {
	def    *catalog.UpgradeDef
	isNew  bool
	weight float64
}

func (m *Manager) card(c candidate) Card {
	return Card{
		ID:          c.def.ID,
		Name:        c.def.Name,
		Description: c.def.Description,
		Category:    c.def.Category,
		Rarity:      c.def.Rarity,
		Level:       m.Level(c.def.ID) + 1,
		New:         c.isNew,
	}
}

// WeightedPick 在 [0,total) 内抽取并依次扣减权重，返回下标；无正权重时返回最后一个，空列表返回-1
func WeightedPick(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if !(total > 0) {
		return len(weights) - 1
	}

	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// weight 候选权重：按类别区分新获得与升级，被动再乘稀有度
func (m *Manager) weight(def *catalog.UpgradeDef, isNew bool) float64 {
	d := m.cat.Draft
	var w float64
	switch def.Category {
	case catalog.CategoryWeapon:
		w = d.WeaponUpgrade
		if isNew {
			w = d.WeaponNew
		}
	case catalog.CategoryPower:
		w = d.PowerUpgrade
		if isNew {
			w = d.PowerNew
		}
	case catalog.CategoryPassive:
		w = d.PassiveUpgrade
		if isNew {
			w = d.PassiveNew
		}
		if r, ok := d.Rarity[def.Rarity]; ok {
			w *= r
		}
	}
	return w
}

// pool 当前可选的全部候选
func (m *Manager) pool() []candidate {
	var out []candidate
	for _, def := range m.cat.AllUpgrades() {
		switch {
		case m.canUpgrade(def):
			out = append(out, candidate{def: def, weight: m.weight(def, false)})
		case m.canAcquireNew(def):
			out = append(out, candidate{def: def, isNew: true, weight: m.weight(def, true)})
		}
	}
	return out
}

// draw 无放回抽取最多 n 个，抽中的与末尾交换后移除
func (m *Manager) draw(pool []candidate, n int) []candidate {
	pool = append([]candidate(nil), pool...)
	var out []candidate
	for len(out) < n && len(pool) > 0 {
		weights := make([]float64, len(pool))
		for i, c := range pool {
			weights[i] = c.weight
		}
		i := WeightedPick(m.rng, weights)
		out = append(out, pool[i])
		last := len(pool) - 1
		pool[i] = pool[last]
		pool = pool[:last]
	}
	return out
}

// GenerateLevelUpCards 生成升级候选。前几级保证武器、能力、被动各一张并打乱顺序，之后按权重无放回抽取
func (m *Manager) GenerateLevelUpCards() []Card {
	pool := m.pool()
	if len(pool) == 0 {
		return nil
	}

	var picked []candidate
	if m.player.Level <= m.cat.Draft.EarlyLevels {
		picked = m.earlyDraft(pool)
	} else {
		picked = m.draw(pool, DraftSize)
	}

	cards := make([]Card, len(picked))
	for i, c := range picked {
		cards[i] = m.card(c)
	}
	return cards
}

// earlyDraft 新武器、新能力、被动各取一个，某类缺失时从剩余候选补足
func (m *Manager) earlyDraft(pool []candidate) []candidate {
	bias := m.cat.Draft.EarlyNewBias
	if bias <= 0 {
		bias = 1
	}

	var picked []candidate
	var rest []candidate
	byCategory := map[catalog.Category][]candidate{}
	for _, c := range pool {
		byCategory[c.def.Category] = append(byCategory[c.def.Category], c)
	}

	for _, cat := range []catalog.Category{catalog.CategoryWeapon, catalog.CategoryPower, catalog.CategoryPassive} {
		var group []candidate
		for _, c := range byCategory[cat] {
			if c.isNew {
				c.weight *= bias
			}
			// 武器与能力优先新获得
			if cat != catalog.CategoryPassive && !c.isNew && hasNew(byCategory[cat]) {
				rest = append(rest, c)
				continue
			}
			group = append(group, c)
		}
		if len(group) == 0 {
			continue
		}
		got := m.draw(group, 1)
		picked = append(picked, got...)
		for _, c := range group {
			if c.def.ID != got[0].def.ID {
				rest = append(rest, c)
			}
		}
	}

	if len(picked) < DraftSize {
		picked = append(picked, m.draw(rest, DraftSize-len(picked))...)
	}
	m.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked
}

func hasNew(cs []candidate) bool {
	for _, c := range cs {
		if c.isNew {
			return true
		}
	}
	return false
}
