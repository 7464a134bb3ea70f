// stats.go

package gateway

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// Leaderboard 排行榜数据源
type Leaderboard interface {
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// RankSource 可查询个人排名的排行榜
type RankSource interface {
	Rank(ctx context.Context, player string) (int, error)
}

// RunHistory 对局历史数据源
type RunHistory interface {
	ListByPlayer(ctx context.Context, player string, limit int) ([]models.RunRecord, error)
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

const (
	defaultLimit = 10
	maxLimit     = 100
	queryTimeout = 3 * time.Second
)

// StatsHandler 战绩处理器，优先使用Redis排行榜，不可用时查询数据库
type StatsHandler struct {
	leaderboard Leaderboard
	history     RunHistory
}

// NewStatsHandler 创建战绩处理器，两个数据源都可以为空
func NewStatsHandler(leaderboard Leaderboard, history RunHistory) *StatsHandler {
	return &StatsHandler{
		leaderboard: leaderboard,
		history:     history,
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *StatsHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/stats/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/stats/runs/", h.handlePlayerRuns)
	mux.HandleFunc("/stats/rank/", h.handlePlayerRank)
}

// LeaderboardData 排行榜数据
type LeaderboardData struct {
	Entries []models.LeaderboardEntry `json:"entries"`
	Source  string                    `json:"source"`
}

// PlayerRunsData 玩家对局数据
type PlayerRunsData struct {
	PlayerName string             `json:"player_name"`
	Runs       []models.RunRecord `json:"runs"`
	Best       int                `json:"best"`
}

func parseLimit(r *http.Request) int {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= maxLimit {
			limit = l
		}
	}
	return limit
}

// handleLeaderboard 处理排行榜查询
func (h *StatsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	limit := parseLimit(r)
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if h.leaderboard != nil {
		entries, err := h.leaderboard.Top(ctx, limit)
		if err == nil {
			sendSuccess(w, "查询成功", LeaderboardData{Entries: entries, Source: "redis"})
			return
		}
		log.Printf("Redis排行榜查询失败，回退到数据库: %v", err)
	}

	if h.history == nil {
		sendError(w, "排行榜不可用", http.StatusServiceUnavailable)
		return
	}
	entries, err := h.history.Top(ctx, limit)
	if err != nil {
		log.Printf("查询排行榜失败: %v", err)
		sendError(w, "查询排行榜失败", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, "查询成功", LeaderboardData{Entries: entries, Source: "database"})
}

// handlePlayerRuns 处理玩家对局历史查询
func (h *StatsHandler) handlePlayerRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	player := strings.TrimPrefix(r.URL.Path, "/stats/runs/")
	if !validatePlayerName(player) {
		sendError(w, "无效的玩家名", http.StatusBadRequest)
		return
	}
	if h.history == nil {
		sendError(w, "对局历史不可用", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	runs, err := h.history.ListByPlayer(ctx, player, parseLimit(r))
	if err != nil {
		log.Printf("查询对局历史失败: %v", err)
		sendError(w, "查询对局历史失败", http.StatusInternalServerError)
		return
	}

	data := PlayerRunsData{PlayerName: player, Runs: runs}
	if data.Runs == nil {
		data.Runs = []models.RunRecord{}
	}
	for _, run := range runs {
		if run.Score > data.Best {
			data.Best = run.Score
		}
	}
	sendSuccess(w, "查询成功", data)
}

// handlePlayerRank 查询玩家在排行榜中的名次
func (h *StatsHandler) handlePlayerRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	player := strings.TrimPrefix(r.URL.Path, "/stats/rank/")
	if !validatePlayerName(player) {
		sendError(w, "无效的玩家名", http.StatusBadRequest)
		return
	}
	ranker, ok := h.leaderboard.(RankSource)
	if !ok {
		sendError(w, "排名查询不可用", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	rank, err := ranker.Rank(ctx, player)
	if err != nil {
		log.Printf("查询排名失败: %v", err)
		sendError(w, "查询排名失败", http.StatusInternalServerError)
		return
	}
	if rank < 0 {
		sendError(w, "玩家不在排行榜上", http.StatusNotFound)
		return
	}
	sendSuccess(w, "查询成功", map[string]interface{}{"player_name": player, "rank": rank})
}
