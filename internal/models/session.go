// session.go

package models

import (
	"time"
)

// SessionStatus 会话状态
type SessionStatus string

const (
	// SessionWaiting 等待客户端开始
	SessionWaiting SessionStatus = "waiting"
	// SessionPlaying 游戏中
	SessionPlaying SessionStatus = "playing"
	// SessionPaused 已暂停(不推进tick)
	SessionPaused SessionStatus = "paused"
	// SessionEnded 已结束
	SessionEnded SessionStatus = "ended"
)

// SessionInfo 会话概要
type SessionInfo struct {
	ID         string        `json:"id"`
	PlayerName string        `json:"player_name"`
	Status     SessionStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	Wave       int           `json:"wave"`
	Level      int           `json:"level"`
}

// EntityView 渲染协作方所需的实体视图
// 只包含逻辑提示，不包含具体素材名
type EntityView struct {
	ID        string     `json:"id" msgpack:"id"`
	Type      EntityType `json:"type" msgpack:"type"`
	Subtype   string     `json:"subtype,omitempty" msgpack:"subtype,omitempty"`
	Position  Vector2D   `json:"position" msgpack:"position"`
	Facing    string     `json:"facing,omitempty" msgpack:"facing,omitempty"`
	State     string     `json:"state,omitempty" msgpack:"state,omitempty"`
	Hint      string     `json:"hint,omitempty" msgpack:"hint,omitempty"`
	Frame     int        `json:"frame" msgpack:"frame"`
	Health    float64    `json:"health,omitempty" msgpack:"health,omitempty"`
	MaxHealth float64    `json:"max_health,omitempty" msgpack:"max_health,omitempty"`
	Radius    float64    `json:"radius" msgpack:"radius"`
	Scale     float64    `json:"scale,omitempty" msgpack:"scale,omitempty"`
	Boss      bool       `json:"boss,omitempty" msgpack:"boss,omitempty"`
}

// PlayerView 玩家视图
type PlayerView struct {
	EntityView
	Level    int      `json:"level" msgpack:"level"`
	XP       float64  `json:"xp" msgpack:"xp"`
	XPNeeded float64  `json:"xp_needed" msgpack:"xp_needed"`
	Armor    float64  `json:"armor" msgpack:"armor"`
	Weapons  []string `json:"weapons" msgpack:"weapons"`
	Powers   []string `json:"powers" msgpack:"powers"`
}

// Snapshot 单帧快照
type Snapshot struct {
	Tick         uint64       `json:"tick" msgpack:"tick"`
	Elapsed      float64      `json:"elapsed" msgpack:"elapsed"`
	Wave         int          `json:"wave" msgpack:"wave"`
	Kills        int          `json:"kills" msgpack:"kills"`
	Player       PlayerView   `json:"player" msgpack:"player"`
	Monsters     []EntityView `json:"monsters" msgpack:"monsters"`
	Projectiles  []EntityView `json:"projectiles" msgpack:"projectiles"`
	PendingDraft bool         `json:"pending_draft" msgpack:"pending_draft"`
}
