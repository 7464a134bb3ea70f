// manager.go

package progression

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
)

var (
	// ErrNoPendingDraft 当前没有待选择的升级
	ErrNoPendingDraft = errors.New("没有待选择的升级")
	// ErrNotOffered 选择的升级不在本次候选中
	ErrNotOffered = errors.New("该升级不在候选列表中")
	// ErrNotEligible 槽位已满或缺少前置武器
	ErrNotEligible = errors.New("不满足获取条件")
)

// Manager 经验、等级与升级管理
type Manager struct {
	cat    *catalog.Catalog
	player *entity.Player
	rng    *rand.Rand
	queue  *event.Queue

	owned  map[string]*PowerUp
	order  []string
	draft  []Card
	queued int
}

// NewManager 创建管理器并发放初始武器
func NewManager(cat *catalog.Catalog, player *entity.Player, rng *rand.Rand, q *event.Queue) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	m := &Manager{
		cat:    cat,
		player: player,
		rng:    rng,
		queue:  q,
	}
	m.Reset()
	return m
}

// Reset 清空已获得的升级与待选草案，玩家本身需先行重置
func (m *Manager) Reset() {
	m.owned = make(map[string]*PowerUp)
	m.order = nil
	m.draft = nil
	m.queued = 0

	if id := m.cat.Player.StartingWeapon; id != "" {
		if err := m.Acquire(id); err != nil {
			log.Printf("初始武器发放失败: %v", err)
		}
	}
}

// Owned 已获得的升级，按获得顺序
func (m *Manager) Owned() []PowerUp {
	out := make([]PowerUp, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.owned[id])
	}
	return out
}

// Level 某升级当前等级，未获得为0
func (m *Manager) Level(id string) int {
	if u, ok := m.owned[id]; ok {
		return u.Level
	}
	return 0
}

// AddXP 增加经验，可能连续升多级，返回本次升级数
func (m *Manager) AddXP(amount float64) int {
	p := m.player
	if !(amount > 0) || math.IsInf(amount, 0) || p.IsDead() {
		return 0
	}
	p.XP += amount

	gained := 0
	for p.XP >= catalog.XPNeeded(p.Level) {
		p.XP -= catalog.XPNeeded(p.Level)
		p.Level++
		gained++
		m.onLevelUp()
	}
	if gained > 0 {
		m.queued += gained
		if m.draft == nil {
			m.openDraft()
		}
	}
	return gained
}

// onLevelUp 按等级曲线重算基础数值并回复固定生命
func (m *Manager) onLevelUp() {
	p := m.player
	p.MaxHealth = m.cat.PlayerMaxHealth(p.Level) + p.Stats.MaxHealthBonus
	p.BaseDamage = m.cat.PlayerBaseDamage(p.Level)
	p.Heal(m.cat.Player.LevelUpHeal)
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}

	m.emit(event.Event{
		Kind:     event.LevelUp,
		EntityID: p.ID,
		Position: p.Position,
		Level:    p.Level,
	})
}

// Acquire 获得新升级或把已有升级提升一级，满级时为空操作
func (m *Manager) Acquire(id string) error {
	def, err := m.cat.Upgrade(id)
	if err != nil {
		return err
	}

	u, ok := m.owned[id]
	if !ok {
		if !m.canAcquireNew(def) {
			return fmt.Errorf("%w: %s", ErrNotEligible, id)
		}
		u = &PowerUp{Def: def}
		m.owned[id] = u
		m.order = append(m.order, id)
	}

	if !u.LevelUp(m.player) {
		return nil
	}
	if def.Category == catalog.CategoryPassive {
		m.refresh()
	}

	m.emit(event.Event{
		Kind:      event.UpgradeApplied,
		EntityID:  m.player.ID,
		UpgradeID: id,
		Level:     u.Level,
	})
	return nil
}

// refresh 被动变化后重算全部武器与能力
func (m *Manager) refresh() {
	for _, id := range m.order {
		u := m.owned[id]
		switch u.Def.Category {
		case catalog.CategoryWeapon:
			applyWeapon(m.player, u.Def, u.Level)
		case catalog.CategoryPower:
			applyPower(m.player, u.Def, u.Level)
		}
	}
}

func (m *Manager) countOwned(cat catalog.Category) int {
	n := 0
	for _, u := range m.owned {
		if u.Def.Category == cat {
			n++
		}
	}
	return n
}

// canAcquireNew 新升级是否可获得：武器与能力受槽位限制，专属被动需先持有对应武器
func (m *Manager) canAcquireNew(def *catalog.UpgradeDef) bool {
	if _, ok := m.owned[def.ID]; ok {
		return false
	}
	switch def.Category {
	case catalog.CategoryWeapon:
		return m.cat.Draft.MaxWeapons <= 0 || m.countOwned(catalog.CategoryWeapon) < m.cat.Draft.MaxWeapons
	case catalog.CategoryPower:
		return m.cat.Draft.MaxPowers <= 0 || m.countOwned(catalog.CategoryPower) < m.cat.Draft.MaxPowers
	case catalog.CategoryPassive:
		if def.RequiresWeapon != "" {
			_, ok := m.owned[def.RequiresWeapon]
			return ok
		}
	}
	return true
}

// canUpgrade 已持有且未满级
func (m *Manager) canUpgrade(def *catalog.UpgradeDef) bool {
	u, ok := m.owned[def.ID]
	return ok && !u.IsMaxed()
}

// HasDraft 是否有待选择的升级
func (m *Manager) HasDraft() bool {
	return len(m.draft) > 0
}

// Draft 当前候选
func (m *Manager) Draft() []Card {
	out := make([]Card, len(m.draft))
	copy(out, m.draft)
	return out
}

// PendingDrafts 尚未处理的升级次数(含当前)
func (m *Manager) PendingDrafts() int {
	return m.queued
}

// openDraft 生成下一次候选，候选耗尽时放弃剩余次数
func (m *Manager) openDraft() {
	m.draft = nil
	for m.queued > 0 {
		cards := m.GenerateLevelUpCards()
		if len(cards) > 0 {
			m.draft = cards
			return
		}
		m.queued = 0
	}
}

// Choose 从当前候选中选择一项并应用
func (m *Manager) Choose(id string) error {
	if len(m.draft) == 0 {
		return ErrNoPendingDraft
	}
	offered := false
	for _, c := range m.draft {
		if c.ID == id {
			offered = true
			break
		}
	}
	if !offered {
		return fmt.Errorf("%w: %s", ErrNotOffered, id)
	}

	if err := m.Acquire(id); err != nil {
		return err
	}
	m.queued--
	m.openDraft()
	return nil
}

// UpdateWeapons 推进武器冷却，返回本帧触发的武器
func (m *Manager) UpdateWeapons(dt float64) []entity.WeaponSlot {
	p := m.player
	if p.IsDead() {
		return nil
	}
	var fired []entity.WeaponSlot
	for i := range p.Weapons {
		w := &p.Weapons[i]
		w.Timer -= dt
		if w.Timer <= 0 {
			fired = append(fired, *w)
			w.Timer += w.Cooldown
			if w.Timer <= 0 {
				w.Timer = w.Cooldown
			}
		}
	}
	return fired
}

// UpdatePowers 推进能力间隔，返回本帧触发的能力
func (m *Manager) UpdatePowers(dt float64) []entity.PowerSlot {
	p := m.player
	if p.IsDead() {
		return nil
	}
	var fired []entity.PowerSlot
	for i := range p.Powers {
		pw := &p.Powers[i]
		pw.Timer -= dt
		if pw.Timer <= 0 {
			fired = append(fired, *pw)
			pw.Timer += pw.Interval
			if pw.Timer <= 0 {
				pw.Timer = pw.Interval
			}
		}
	}
	return fired
}

func (m *Manager) emit(e event.Event) {
	if m.queue != nil {
		m.queue.Emit(e)
	}
}
