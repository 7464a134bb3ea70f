// player.go

package models

import (
	"time"
)

// PlayerSession 玩家会话凭证
type PlayerSession struct {
	PlayerName string    `json:"player_name"`
	SessionID  string    `json:"session_id"`
	Token      string    `json:"token,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired 凭证是否已过期
func (s *PlayerSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
