// select.go

package spawn

import (
	"math"
)

// BaseCount 每批刷怪数量 min(6, 1 + wave/4) + random(0,1)
func (s *Scheduler) BaseCount(wave int) int {
	base := 1 + wave/4
	if base > 6 {
		base = 6
	}
	return base + s.rng.Intn(2)
}

// UnlockedCount 加权解锁阶段已解锁的怪物种类数 floor(min(total, 3 + wave*0.3))
func (s *Scheduler) UnlockedCount(wave int) int {
	total := len(s.cat.MonsterOrder)
	return int(math.Floor(math.Min(float64(total), 3+float64(wave)*0.3)))
}

// TypeWeight 解锁顺序第 index 种怪物在 wave 波的基础权重 max(1, (index+1)*0.8 + wave*0.25)
func TypeWeight(index, wave int) float64 {
	return math.Max(1, float64(index+1)*0.8+float64(wave)*0.25)
}

// SelectType 选择一种怪物：前5波查固定累积概率表，之后按解锁权重随机
func (s *Scheduler) SelectType(wave int) string {
	if wave >= 1 && wave <= len(s.cat.EarlyWaves) {
		return s.selectFromTable(wave)
	}
	return s.selectWeighted(wave)
}

// selectFromTable 抽取 [0,1) 随机数沿累积概率查表，未命中时取最后一项
func (s *Scheduler) selectFromTable(wave int) string {
	table := s.cat.EarlyWaves[wave-1]
	r := s.rng.Float64()
	cumulative := 0.0
	for _, e := range table {
		cumulative += e.Chance
		if r < cumulative {
			return e.Monster
		}
	}
	return table[len(table)-1].Monster
}

type weightedType struct {
	id     string
	weight float64
}

// candidates 当前波次的候选怪物及权重
func (s *Scheduler) candidates(wave int) []weightedType {
	unlocked := s.UnlockedCount(wave)
	barrage := s.set.IsBarrageWave(wave)

	out := make([]weightedType, 0, unlocked)
	for i, id := range s.cat.MonsterOrder[:unlocked] {
		m := s.cat.Monsters[id]
		if m == nil {
			continue
		}
		if barrage && m.Category != s.set.BarrageCategory {
			continue
		}
		w := TypeWeight(i, wave) * m.SpawnPenalty
		if barrage {
			w *= s.set.BarrageBoost
		}
		out = append(out, weightedType{id: id, weight: w})
	}

	// 弹幕分类尚未解锁时使用该分类全部怪物
	if barrage && len(out) == 0 {
		for _, id := range s.cat.MonstersIn(s.set.BarrageCategory) {
			out = append(out, weightedType{id: id, weight: s.set.BarrageBoost})
		}
	}
	if len(out) == 0 {
		for i, id := range s.cat.MonsterOrder[:unlocked] {
			out = append(out, weightedType{id: id, weight: TypeWeight(i, wave)})
		}
	}
	return out
}

// selectWeighted 在 [0,total) 内抽取并依次扣减权重，权重和为0时取第一个候选
func (s *Scheduler) selectWeighted(wave int) string {
	cands := s.candidates(wave)
	if len(cands) == 0 {
		return ""
	}
	total := 0.0
	for _, c := range cands {
		if c.weight > 0 {
			total += c.weight
		}
	}
	if !(total > 0) {
		return cands[0].id
	}

	r := s.rng.Float64() * total
	for _, c := range cands {
		if c.weight <= 0 {
			continue
		}
		r -= c.weight
		if r <= 0 {
			return c.id
		}
	}
	return cands[0].id
}
