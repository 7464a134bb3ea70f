// run_store.go

package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresRunStore 对局记录持久化
type PostgresRunStore struct {
	db *sql.DB
}

// NewPostgresRunStore 创建记录存储
func NewPostgresRunStore(db *sql.DB) *PostgresRunStore {
	return &PostgresRunStore{db: db}
}

// RecordRun 保存一局结果
func (s *PostgresRunStore) RecordRun(ctx context.Context, rec *RunRecord) error {
	kills, err := json.Marshal(rec.KillsByType)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO run_records
			(id, player_name, wave, level, kills, survived, score, kills_by_type, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.PlayerName, rec.Wave, rec.Level, rec.Kills,
		rec.Survived, rec.Score, string(kills), rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("保存对局记录失败: %w", err)
	}
	return nil
}

// ListByPlayer 查询玩家最近的对局
func (s *PostgresRunStore) ListByPlayer(ctx context.Context, player string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, player_name, wave, level, kills, survived, score, kills_by_type, started_at, ended_at
		FROM run_records
		WHERE player_name = $1
		ORDER BY ended_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, player, limit)
	if err != nil {
		return nil, fmt.Errorf("查询对局记录失败: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var kills []byte
		if err := rows.Scan(
			&rec.ID, &rec.PlayerName, &rec.Wave, &rec.Level, &rec.Kills,
			&rec.Survived, &rec.Score, &kills, &rec.StartedAt, &rec.EndedAt,
		); err != nil {
			return nil, err
		}
		if len(kills) > 0 {
			if err := json.Unmarshal(kills, &rec.KillsByType); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Top 按最佳得分汇总的排行榜，Redis不可用时使用
func (s *PostgresRunStore) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT DISTINCT ON (player_name) player_name, score, wave, level, kills, survived
		FROM run_records
		ORDER BY player_name, score DESC
	`
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM (`+query+`) best ORDER BY score DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询排行榜失败: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.Score, &e.Wave, &e.Level, &e.Kills, &e.Survived); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
