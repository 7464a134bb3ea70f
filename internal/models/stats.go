// stats.go

package models

import (
	"time"

	"github.com/google/uuid"
)

// 得分权重
const (
	ScorePerKill  = 10
	ScorePerWave  = 100
	ScorePerLevel = 50
)

// RunRecord 一局结束后的记录，只保存结果，不保存局内状态
type RunRecord struct {
	ID          string         `json:"id"`
	PlayerName  string         `json:"player_name"`
	Wave        int            `json:"wave"`
	Level       int            `json:"level"`
	Kills       int            `json:"kills"`
	Survived    float64        `json:"survived"` // 存活时间(秒)
	Score       int            `json:"score"`
	KillsByType map[string]int `json:"kills_by_type,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
}

// ComputeScore 得分 = 击杀·10 + 波次·100 + 等级·50
func ComputeScore(kills, wave, level int) int {
	return kills*ScorePerKill + wave*ScorePerWave + level*ScorePerLevel
}

// NewRunRecord 创建记录并计算得分
func NewRunRecord(player string, wave, level, kills int, survived float64, startedAt time.Time) *RunRecord {
	return &RunRecord{
		ID:         uuid.New().String(),
		PlayerName: player,
		Wave:       wave,
		Level:      level,
		Kills:      kills,
		Survived:   survived,
		Score:      ComputeScore(kills, wave, level),
		StartedAt:  startedAt,
		EndedAt:    time.Now(),
	}
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"`
	Wave       int     `json:"wave"`
	Level      int     `json:"level"`
	Kills      int     `json:"kills"`
	Survived   float64 `json:"survived"`
	Rank       int     `json:"rank"` // 排名，从1开始
}

// 注意：表结构定义已移至 pkg/db/schema.go 统一管理
