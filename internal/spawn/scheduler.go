// scheduler.go

package spawn

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// WaveState 波次状态
type WaveState struct {
	Wave          int     `json:"wave"`
	WaveElapsed   float64 `json:"wave_elapsed"`
	SpawnTimer    float64 `json:"spawn_timer"`
	SpawnInterval float64 `json:"spawn_interval"`
}

// Scheduler 波次刷怪调度器
type Scheduler struct {
	cat *catalog.Catalog
	set Settings
	rng *rand.Rand

	wave         int
	waveTimer    float64
	spawnTimer   float64
	interval     float64
	pendingStart bool
	packIDs      []string
}

// NewScheduler 创建调度器，从第1波开始
func NewScheduler(cat *catalog.Catalog, set Settings, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	s := &Scheduler{cat: cat, set: set, rng: rng}
	for id := range cat.Packs {
		s.packIDs = append(s.packIDs, id)
	}
	sort.Strings(s.packIDs)
	s.Reset()
	return s
}

// Reset 回到第1波
func (s *Scheduler) Reset() {
	s.wave = 1
	s.waveTimer = 0
	s.spawnTimer = 0
	s.interval = s.set.SpawnInterval(1)
	s.pendingStart = true
}

// Wave 当前波次
func (s *Scheduler) Wave() int {
	return s.wave
}

// Settings 调度参数
func (s *Scheduler) Settings() Settings {
	return s.set
}

// State 波次状态快照
func (s *Scheduler) State() WaveState {
	return WaveState{
		Wave:          s.wave,
		WaveElapsed:   s.waveTimer,
		SpawnTimer:    s.spawnTimer,
		SpawnInterval: s.interval,
	}
}

// currentInterval 弹幕波次刷怪频率加倍
func (s *Scheduler) currentInterval() float64 {
	if s.set.IsBarrageWave(s.wave) && s.set.BarrageRateMult > 0 {
		return s.interval / s.set.BarrageRateMult
	}
	return s.interval
}

// Update 推进一帧，返回本帧新生成的怪物。alive 为当前场上怪物数，用于上限控制
func (s *Scheduler) Update(dt float64, player *entity.Player, alive int, q *event.Queue) []*entity.Monster {
	if player == nil {
		return nil
	}
	var spawned []*entity.Monster

	// 第一波的开始事件
	if s.pendingStart {
		s.pendingStart = false
		spawned = append(spawned, s.startWave(player, q)...)
	}

	// 波次推进
	s.waveTimer += dt
	if s.waveTimer >= s.set.WaveDuration {
		s.wave++
		s.waveTimer = 0
		s.interval = s.set.SpawnInterval(s.wave)
		if s.set.Debug {
			log.Printf("进入第 %d 波, 刷怪间隔 %.2f 秒", s.wave, s.currentInterval())
		}
		spawned = append(spawned, s.startWave(player, q)...)
	}

	// 普通刷怪
	s.spawnTimer += dt
	if s.spawnTimer >= s.currentInterval() {
		s.spawnTimer = 0
		spawned = append(spawned, s.spawnBatch(player, alive+len(spawned), q)...)
	}
	return spawned
}

// startWave 波次开始事件：Boss与怪物群
func (s *Scheduler) startWave(player *entity.Player, q *event.Queue) []*entity.Monster {
	var spawned []*entity.Monster
	emit(q, event.Event{Kind: event.WaveStarted, Wave: s.wave})

	if IsBossWave(s.wave) {
		if boss := s.SpawnBoss(player); boss != nil {
			spawned = append(spawned, boss)
			emit(q, event.Event{
				Kind:     event.BossSpawned,
				EntityID: boss.ID,
				Subtype:  boss.Type,
				Position: boss.Position,
				Wave:     s.wave,
				Boss:     true,
			})
		}
	}
	if IsPackWave(s.wave) {
		spawned = append(spawned, s.spawnPackEvent(s.packForWave(s.wave), player, q)...)
	}
	return spawned
}

// packForWave 怪物群波次轮流使用各怪物群
func (s *Scheduler) packForWave(wave int) string {
	if len(s.packIDs) == 0 {
		return ""
	}
	return s.packIDs[((wave-12)/6)%len(s.packIDs)]
}

func (s *Scheduler) spawnPackEvent(id string, player *entity.Player, q *event.Queue) []*entity.Monster {
	pack := s.SpawnPack(id, player)
	if len(pack) > 0 {
		emit(q, event.Event{
			Kind:     event.PackSpawned,
			Subtype:  id,
			Position: pack[0].Position,
			Wave:     s.wave,
		})
	}
	return pack
}

// spawnBatch 普通刷怪：先判定稀有被动生物与怪物群，再按波次选择怪物
func (s *Scheduler) spawnBatch(player *entity.Player, alive int, q *event.Queue) []*entity.Monster {
	var spawned []*entity.Monster
	room := math.MaxInt32
	if s.set.MaxMonsters > 0 {
		room = s.set.MaxMonsters - alive
	}
	if room <= 0 {
		return nil
	}

	// 稀有被动生物
	if s.cat.PassiveCreature != "" && s.rng.Float64() < s.set.PassiveChance {
		if m := s.makeMonster(s.cat.PassiveCreature, s.SpawnPosition(player.Position), player); m != nil {
			spawned = append(spawned, m)
		}
	}

	// 怪物群替代本批次
	if s.wave > s.set.PackMinWave && len(s.packIDs) > 0 && s.rng.Float64() < s.set.PackChance {
		id := s.packIDs[s.rng.Intn(len(s.packIDs))]
		return append(spawned, s.spawnPackEvent(id, player, q)...)
	}

	// 按波次选择怪物
	count := s.BaseCount(s.wave)
	if s.set.IsBarrageWave(s.wave) {
		count = 3 + s.rng.Intn(3)
	}
	for i := 0; i < count && len(spawned) < room; i++ {
		id := s.SelectType(s.wave)
		if m := s.makeMonster(id, s.SpawnPosition(player.Position), player); m != nil {
			spawned = append(spawned, m)
		}
	}
	return spawned
}

// SpawnBoss 重新抽取一种普通怪物并施加Boss倍率
func (s *Scheduler) SpawnBoss(player *entity.Player) *entity.Monster {
	return s.SpawnBossOf(s.SelectType(s.wave), player)
}

// SpawnBossOf 以指定怪物生成Boss，倍率只作用于该实例
func (s *Scheduler) SpawnBossOf(id string, player *entity.Player) *entity.Monster {
	var center models.Vector2D
	if player != nil {
		center = player.Position
	}
	m := s.makeMonster(id, s.SpawnPosition(center), player)
	if m == nil {
		return nil
	}
	m.ApplyBossMultipliers(s.set.BossHealth, s.set.BossDamage, s.set.BossSpeed, s.set.BossScale)
	m.DropTable = "boss"
	return m
}

// SpawnPack 生成一组怪物群成员，成员带有怪物群标记以跳过分离
func (s *Scheduler) SpawnPack(id string, player *entity.Player) []*entity.Monster {
	pack, ok := s.cat.Packs[id]
	if !ok {
		log.Printf("未知的怪物群: %s", id)
		return nil
	}
	var center models.Vector2D
	if player != nil {
		center = player.Position
	}

	var members []*entity.Monster
	switch pack.Kind {
	case catalog.PackCluster:
		// 以锚点为中心按偏移排布
		anchor := s.SpawnPosition(center)
		for _, off := range pack.Offsets {
			pos := s.set.World.Clamp(anchor.Add(models.Vector2D{X: off[0], Y: off[1]}))
			if m := s.makeMonster(pack.Monster, pos, player); m != nil {
				m.Pack = pack.ID
				members = append(members, m)
			}
		}
	case catalog.PackLine:
		// 从地图边缘排成一列冲向玩家
		edge := s.edgePoint(center)
		dir := center.Sub(edge).Normalize()
		if dir.LenSq() == 0 {
			dir = models.Vector2D{X: 1}
		}
		for i := 0; i < pack.Count; i++ {
			pos := edge.Sub(dir.Scale(pack.Spacing * float64(i)))
			m := s.makeMonster(pack.Monster, pos, player)
			if m == nil {
				continue
			}
			m.Pack = pack.ID
			factor := pack.LineSpeedFactor
			if factor <= 0 {
				factor = 1
			}
			m.LineVelocity = dir.Scale(m.Speed * factor)
			members = append(members, m)
		}
	}
	return members
}

// edgePoint 随机选择地图一侧边缘上与玩家对齐的点
func (s *Scheduler) edgePoint(center models.Vector2D) models.Vector2D {
	b := s.set.World
	switch s.rng.Intn(4) {
	case 0:
		return models.Vector2D{X: 0, Y: center.Y}
	case 1:
		return models.Vector2D{X: b.Width, Y: center.Y}
	case 2:
		return models.Vector2D{X: center.X, Y: 0}
	default:
		return models.Vector2D{X: center.X, Y: b.Height}
	}
}

// SpawnPosition 以玩家为圆心随机角度、距离 spawnRadius±jitter，限制在地图内
func (s *Scheduler) SpawnPosition(center models.Vector2D) models.Vector2D {
	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.set.SpawnRadius + (s.rng.Float64()*2-1)*s.set.SpawnJitter
	pos := center.Add(models.FromAngle(angle).Scale(dist))
	if s.set.World.Width > 0 && s.set.World.Height > 0 {
		pos = s.set.World.Clamp(pos)
	}
	return pos
}

// makeMonster 未知怪物类型记录日志并跳过
func (s *Scheduler) makeMonster(id string, pos models.Vector2D, player *entity.Player) *entity.Monster {
	stats, err := s.cat.Monster(id)
	if err != nil {
		log.Printf("跳过刷怪: %v", err)
		return nil
	}
	return entity.NewMonster(stats, s.cat.Tunables(stats.Variant), pos, player)
}

func emit(q *event.Queue, e event.Event) {
	if q != nil {
		q.Emit(e)
	}
}
