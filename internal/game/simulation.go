// simulation.go

package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/combat"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/jacl-coder/PixelStorm-Survival/internal/progression"
	"github.com/jacl-coder/PixelStorm-Survival/internal/spawn"
)

// ErrRunOver 本局已结束
var ErrRunOver = errors.New("本局已结束")

// projectileMargin 投射物离开地图多远后销毁
const projectileMargin = 200

// Options 模拟参数
type Options struct {
	Spawn             spawn.Settings
	Combat            combat.Config
	Separation        entity.Separation
	WatchdogTicks     int
	ExternalAnimation bool
	PauseOnDraft      bool // 有待选升级时暂停推进
	Seed              int64
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Spawn: spawn.DefaultSettings(),
		Combat: combat.Config{
			TouchCooldown:      combat.DefaultTouchCooldown,
			OrbitalHitCooldown: combat.DefaultOrbitalHitCooldown,
		},
		Separation:    entity.Separation{Radius: 28, Strength: 0.6},
		WatchdogTicks: 90,
		PauseOnDraft:  true,
	}
}

// RunSummary 一局的统计结果
type RunSummary struct {
	Wave     int
	Level    int
	Kills    int
	Survived float64
	ByType   map[string]int
}

// Simulation 单局模拟，单线程推进，不持有锁
type Simulation struct {
	cat   *catalog.Catalog
	opts  Options
	rng   *rand.Rand
	world *entity.World
	queue *event.Queue

	player      *entity.Player
	monsters    []*entity.Monster
	projectiles []*combat.Projectile
	orbitals    []*combat.Orbital
	shots       []*combat.EnemyShot

	scheduler *spawn.Scheduler
	combat    *combat.System
	progress  *progression.Manager
	grid      *Grid

	tick    uint64
	elapsed float64
	kills   int
	byType  map[string]int
	over    bool
}

// NewSimulation 创建模拟，数值表无效时返回错误
func NewSimulation(cat *catalog.Catalog, opts Options) (*Simulation, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: 数值表为空", catalog.ErrInvalidCatalog)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("创建模拟失败: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulation{
		cat:   cat,
		opts:  opts,
		rng:   rand.New(rand.NewSource(seed)),
		queue: &event.Queue{},
		grid:  NewGrid(64),
	}
	s.world = &entity.World{
		Bounds:            opts.Spawn.World,
		Rand:              s.rng,
		Hooks:             simHooks{s},
		WatchdogTicks:     opts.WatchdogTicks,
		ExternalAnimation: opts.ExternalAnimation,
	}
	s.player = entity.NewPlayer(cat.Player, s.center())
	s.scheduler = spawn.NewScheduler(cat, opts.Spawn, s.rng)
	s.combat = combat.NewSystem(opts.Combat, s.world)
	s.progress = progression.NewManager(cat, s.player, s.rng, s.queue)
	s.byType = make(map[string]int)
	s.queue.Drain()
	return s, nil
}

func (s *Simulation) center() models.Vector2D {
	b := s.opts.Spawn.World
	return models.Vector2D{X: b.Width / 2, Y: b.Height / 2}
}

// Reset 开始新的一局
func (s *Simulation) Reset() {
	s.player.Reset(s.center())
	s.progress.Reset()
	s.scheduler.Reset()
	s.combat.Reset()
	s.monsters = nil
	s.projectiles = nil
	s.orbitals = nil
	s.shots = nil
	s.tick = 0
	s.elapsed = 0
	s.kills = 0
	s.byType = make(map[string]int)
	s.over = false
	s.queue.Drain()
}

// Tick 推进一帧：刷怪 → 实体更新 → 碰撞结算 → 武器与能力计时 → 清理。顺序固定
func (s *Simulation) Tick(dt float64, in entity.InputSnapshot) []event.Event {
	if s.over || !(dt > 0) {
		return nil
	}
	// 等待选卡时暂停
	if s.opts.PauseOnDraft && s.progress.HasDraft() {
		return nil
	}
	s.tick++
	s.elapsed += dt
	s.queue.SetTick(int64(s.tick))

	// 刷怪
	spawned := s.scheduler.Update(dt, s.player, s.aliveCount(), s.queue)
	s.monsters = append(s.monsters, spawned...)

	// 更新实体
	s.updateEntities(dt, in)

	// 碰撞与伤害结算
	s.combat.Resolve(dt, s.player, s.monsters, s.projectiles, s.orbitals, s.shots)

	// 武器与能力计时
	if !s.player.IsDead() {
		s.fireWeapons(s.progress.UpdateWeapons(dt))
		s.firePowers(s.progress.UpdatePowers(dt))
	}

	// 清理死亡实体
	s.prune()

	// 死亡动画播完才结束本局
	if s.player.IsDead() && s.player.DeathFinished() {
		s.over = true
	}
	return s.queue.Drain()
}

// updateEntities 怪物先于玩家更新，怪物读取的是玩家上一帧的位置
func (s *Simulation) updateEntities(dt float64, in entity.InputSnapshot) {
	// 怪物AI与移动
	for _, m := range s.monsters {
		m.Update(dt, s.world)
	}

	// 重建网格后做分离，怪物群成员不参与
	s.grid.Rebuild(s.monsters)
	if s.opts.Separation.Radius > 0 {
		for _, m := range s.monsters {
			if m.Pack != "" || m.State == entity.StateDead {
				continue
			}
			m.Separate(s.grid.Nearby(m.Position, s.opts.Separation.Radius, m), s.opts.Separation, dt, s.world)
		}
	}

	s.player.Update(dt, in, s.world)

	// 移动投射物，飞出地图的标记失效
	b := s.opts.Spawn.World
	for _, p := range s.projectiles {
		p.Update(dt)
		if !b.Contains(p.Position, projectileMargin) {
			p.Dead = true
		}
	}
	for _, o := range s.orbitals {
		o.Update(dt, s.player.Position)
	}
	for _, sh := range s.shots {
		sh.Update(dt)
		if !b.Contains(sh.Position, projectileMargin) {
			sh.Dead = true
		}
	}
}

// prune 移除可移除的怪物与失效的投射物
func (s *Simulation) prune() {
	// 移除怪物，离开地图的另发事件
	alive := s.monsters[:0]
	for _, m := range s.monsters {
		if m.IsRemovable() {
			if m.Despawned() {
				s.queue.Emit(event.Event{
					Kind:     event.MonsterDespawned,
					EntityID: m.ID,
					Subtype:  m.Type,
					Position: m.Position,
				})
			}
			continue
		}
		alive = append(alive, m)
	}
	for i := len(alive); i < len(s.monsters); i++ {
		s.monsters[i] = nil
	}
	s.monsters = alive

	// 移除投射物
	projectiles := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.Dead {
			projectiles = append(projectiles, p)
		}
	}
	s.projectiles = projectiles

	orbitals := s.orbitals[:0]
	for _, o := range s.orbitals {
		if !o.Dead {
			orbitals = append(orbitals, o)
		}
	}
	s.orbitals = orbitals

	shots := s.shots[:0]
	for _, sh := range s.shots {
		if !sh.Dead {
			shots = append(shots, sh)
		}
	}
	s.shots = shots
}

func (s *Simulation) aliveCount() int {
	n := 0
	for _, m := range s.monsters {
		if m.State != entity.StateDead {
			n++
		}
	}
	return n
}

// ChooseUpgrade 选择升级
func (s *Simulation) ChooseUpgrade(id string) error {
	if s.over {
		return ErrRunOver
	}
	return s.progress.Choose(id)
}

// Draft 当前升级候选
func (s *Simulation) Draft() []progression.Card {
	return s.progress.Draft()
}

// ClearScreen 清屏：击杀全部非Boss怪物，每只都会触发死亡事件
func (s *Simulation) ClearScreen() int {
	n := 0
	for _, m := range s.monsters {
		if m.Boss || m.State == entity.StateDead || m.IsRemovable() {
			continue
		}
		m.Kill(s.world)
		n++
	}
	return n
}

// AnimationReport 渲染端汇报动画进度，complete 为真时表示片段播放完毕
func (s *Simulation) AnimationReport(id string, frame int, complete bool) bool {
	if id == s.player.ID {
		if complete {
			s.player.Anim.Complete()
		} else {
			s.player.Anim.Advance(frame)
		}
		return true
	}
	for _, m := range s.monsters {
		if m.ID != id {
			continue
		}
		if complete {
			m.CompleteAnimation()
		} else {
			m.AdvanceAnimation(frame)
		}
		return true
	}
	return false
}

// Over 本局是否结束
func (s *Simulation) Over() bool {
	return s.over
}

// Player 玩家实体
func (s *Simulation) Player() *entity.Player {
	return s.player
}

// Monsters 当前怪物列表(只读)
func (s *Simulation) Monsters() []*entity.Monster {
	return s.monsters
}

// Progress 升级管理器
func (s *Simulation) Progress() *progression.Manager {
	return s.progress
}

// Scheduler 刷怪调度器
func (s *Simulation) Scheduler() *spawn.Scheduler {
	return s.scheduler
}

// World 实体环境
func (s *Simulation) World() *entity.World {
	return s.world
}

// AddMonster 直接加入怪物(调试与测试)
func (s *Simulation) AddMonster(id string, pos models.Vector2D) (*entity.Monster, error) {
	stats, err := s.cat.Monster(id)
	if err != nil {
		return nil, err
	}
	m := entity.NewMonster(stats, s.cat.Tunables(stats.Variant), pos, s.player)
	s.monsters = append(s.monsters, m)
	return m, nil
}

// Summary 本局统计
func (s *Simulation) Summary() RunSummary {
	byType := make(map[string]int, len(s.byType))
	for k, v := range s.byType {
		byType[k] = v
	}
	return RunSummary{
		Wave:     s.scheduler.Wave(),
		Level:    s.player.Level,
		Kills:    s.kills,
		Survived: s.elapsed,
		ByType:   byType,
	}
}

// simHooks 实体钩子，转为事件并统计击杀
type simHooks struct {
	s *Simulation
}

func (h simHooks) MonsterDied(m *entity.Monster) {
	s := h.s
	s.kills++
	s.byType[m.Type]++
	s.queue.Emit(event.Event{
		Kind:     event.MonsterDied,
		EntityID: m.ID,
		Subtype:  m.Type,
		Position: m.Position,
		DropHint: m.DropTable,
		XP:       m.XP,
		Boss:     m.Boss,
	})
	if m.Boss {
		s.queue.Emit(event.Event{
			Kind:     event.ScreenClear,
			EntityID: m.ID,
			Position: m.Position,
			Boss:     true,
		})
	}
	s.progress.AddXP(m.XP)
}

func (h simHooks) PlayerDied(p *entity.Player) {
	h.s.queue.Emit(event.Event{
		Kind:     event.PlayerDied,
		EntityID: p.ID,
		Position: p.Position,
		Level:    p.Level,
		Wave:     h.s.scheduler.Wave(),
	})
}

func (h simHooks) FireShot(m *entity.Monster, origin, dir models.Vector2D) {
	t := m.Tunables
	h.s.shots = append(h.s.shots, combat.NewEnemyShot(m.ID, origin, dir, t.ShotSpeed, t.ShotRadius, m.Damage, t.ShotLifetime))
}

func (h simHooks) AnimationRecovered(id, clip string) {
	log.Printf("实体 %s 动画 %s 停滞，已强制恢复", id, clip)
	h.s.queue.Emit(event.Event{
		Kind:     event.WatchdogRecovered,
		EntityID: id,
		Subtype:  clip,
	})
}
