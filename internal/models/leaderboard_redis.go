package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 排行榜Redis键名
const (
	LeaderboardBestKey = "leaderboard:best"

	// 玩家最佳记录摘要键前缀
	RunSummaryPrefix = "run:best:"

	// 摘要缓存时间
	RunSummaryTTL = 7 * 24 * time.Hour
)

// RedisLeaderboard 基于有序集合的最佳得分排行榜
type RedisLeaderboard struct {
	client redis.Cmdable
}

// NewRedisLeaderboard 创建Redis排行榜
func NewRedisLeaderboard(client redis.Cmdable) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

// RecordRun 提交一局结果，只有超过历史最佳时才更新
func (rl *RedisLeaderboard) RecordRun(ctx context.Context, rec *RunRecord) error {
	if rec == nil || rec.PlayerName == "" {
		return fmt.Errorf("无效的对局记录")
	}

	best, err := rl.client.ZScore(ctx, LeaderboardBestKey, rec.PlayerName).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("读取最佳得分失败: %w", err)
	}
	if err == nil && float64(rec.Score) <= best {
		return nil
	}

	if err := rl.client.ZAdd(ctx, LeaderboardBestKey, &redis.Z{
		Score:  float64(rec.Score),
		Member: rec.PlayerName,
	}).Err(); err != nil {
		return fmt.Errorf("更新排行榜失败: %w", err)
	}

	entry := LeaderboardEntry{
		PlayerName: rec.PlayerName,
		Score:      float64(rec.Score),
		Wave:       rec.Wave,
		Level:      rec.Level,
		Kills:      rec.Kills,
		Survived:   rec.Survived,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rl.client.Set(ctx, RunSummaryPrefix+rec.PlayerName, data, RunSummaryTTL).Err()
}

// Top 获取前 limit 名
func (rl *RedisLeaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	members, err := rl.client.ZRevRangeWithScores(ctx, LeaderboardBestKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for i, member := range members {
		name, ok := member.Member.(string)
		if !ok {
			continue
		}
		entry, err := rl.summary(ctx, name)
		if err != nil {
			// 摘要过期时只返回得分
			entry = &LeaderboardEntry{PlayerName: name}
		}
		entry.Score = member.Score
		entry.Rank = i + 1
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Rank 获取玩家排名，不在榜上返回-1
func (rl *RedisLeaderboard) Rank(ctx context.Context, player string) (int, error) {
	rank, err := rl.client.ZRevRank(ctx, LeaderboardBestKey, player).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, nil
		}
		return -1, err
	}
	return int(rank) + 1, nil
}

func (rl *RedisLeaderboard) summary(ctx context.Context, player string) (*LeaderboardEntry, error) {
	data, err := rl.client.Get(ctx, RunSummaryPrefix+player).Result()
	if err != nil {
		return nil, err
	}
	var entry LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
