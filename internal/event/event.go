// event.go

package event

import (
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// Kind 事件类型
type Kind string

const (
	// MonsterDied 怪物死亡(携带掉落提示与经验)
	MonsterDied Kind = "monster_died"
	// PlayerDied 玩家死亡
	PlayerDied Kind = "player_died"
	// LevelUp 玩家升级
	LevelUp Kind = "level_up"
	// WaveStarted 新波次开始
	WaveStarted Kind = "wave_started"
	// BossSpawned Boss出现
	BossSpawned Kind = "boss_spawned"
	// PackSpawned 怪物群出现
	PackSpawned Kind = "pack_spawned"
	// ScreenClear 清屏拾取物掉落
	ScreenClear Kind = "screen_clear"
	// UpgradeApplied 升级已生效
	UpgradeApplied Kind = "upgrade_applied"
	// WatchdogRecovered 动画看门狗强制恢复
	WatchdogRecovered Kind = "watchdog_recovered"
	// MonsterDespawned 怪物离开地图被移除(不算击杀)
	MonsterDespawned Kind = "monster_despawned"
)

// Event 模拟核心向外部发出的离散通知
type Event struct {
	Kind      Kind            `json:"kind" msgpack:"kind"`
	Tick      int64           `json:"tick" msgpack:"tick"`
	EntityID  string          `json:"entity_id,omitempty" msgpack:"entity_id,omitempty"`
	Subtype   string          `json:"subtype,omitempty" msgpack:"subtype,omitempty"`
	Position  models.Vector2D `json:"position" msgpack:"position"`
	Level     int             `json:"level,omitempty" msgpack:"level,omitempty"`
	Wave      int             `json:"wave,omitempty" msgpack:"wave,omitempty"`
	DropHint  string          `json:"drop_hint,omitempty" msgpack:"drop_hint,omitempty"`
	XP        float64         `json:"xp,omitempty" msgpack:"xp,omitempty"`
	UpgradeID string          `json:"upgrade_id,omitempty" msgpack:"upgrade_id,omitempty"`
	Boss      bool            `json:"boss,omitempty" msgpack:"boss,omitempty"`
}

// Queue 单帧内累积的事件，由驱动方在帧末取走
type Queue struct {
	tick   int64
	events []Event
}

// SetTick 设置后续事件的帧号
func (q *Queue) SetTick(tick int64) {
	q.tick = tick
}

// Emit 追加事件
func (q *Queue) Emit(e Event) {
	e.Tick = q.tick
	q.events = append(q.events, e)
}

// Drain 取走并清空已累积的事件
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Len 当前累积的事件数
func (q *Queue) Len() int {
	return len(q.events)
}
