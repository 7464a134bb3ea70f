package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jacl-coder/PixelStorm-Survival/internal/auth"
)

const (
	minNameLength = 2
	maxNameLength = 24
)

// AuthHandler 认证处理器，签发游戏服务器使用的会话令牌
type AuthHandler struct {
	issuer *auth.Issuer
}

// TokenRequest 令牌请求
type TokenRequest struct {
	PlayerName string `json:"player_name"`
}

// TokenData 令牌响应数据
type TokenData struct {
	Token      string `json:"token"`
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
	ExpiresAt  int64  `json:"expires_at"`
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// RegisterHandlers 注册HTTP处理器
func (h *AuthHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/auth/token", h.handleToken)
	mux.HandleFunc("/auth/validate", h.handleValidate)
}

// validatePlayerName 玩家名只允许字母、数字、下划线和中文
func validatePlayerName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// handleToken 处理令牌签发
func (h *AuthHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if !validatePlayerName(req.PlayerName) {
		sendError(w, "玩家名格式无效", http.StatusBadRequest)
		return
	}

	sess, err := h.issuer.Issue(req.PlayerName)
	if err != nil {
		sendError(w, "签发令牌失败", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, "签发成功", TokenData{
		Token:      sess.Token,
		SessionID:  sess.SessionID,
		PlayerName: sess.PlayerName,
		ExpiresAt:  sess.ExpiresAt.Unix(),
	})
}

// handleValidate 校验令牌
func (h *AuthHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		sendError(w, "缺少令牌", http.StatusUnauthorized)
		return
	}
	sess, err := h.issuer.Parse(token)
	if err != nil {
		sendError(w, "令牌无效", http.StatusUnauthorized)
		return
	}
	sendSuccess(w, "令牌有效", TokenData{
		SessionID:  sess.SessionID,
		PlayerName: sess.PlayerName,
		ExpiresAt:  sess.ExpiresAt.Unix(),
	})
}

// bearerToken 从 Authorization 头或查询参数读取令牌
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
