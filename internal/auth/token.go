// token.go

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

var (
	// ErrInvalidToken 令牌无效或已过期
	ErrInvalidToken = errors.New("无效的令牌")
	// ErrEmptySecret 未配置签名密钥
	ErrEmptySecret = errors.New("未配置令牌密钥")
)

const issuer = "pixelstorm-survival"

// Claims 会话令牌声明
type Claims struct {
	PlayerName string `json:"player_name"`
	jwt.RegisteredClaims
}

// Issuer 签发与校验HS256会话令牌
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer 创建签发器
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue 为玩家签发令牌
func (i *Issuer) Issue(player string) (*models.PlayerSession, error) {
	if player == "" {
		return nil, fmt.Errorf("玩家名不能为空")
	}
	now := i.now()
	sessionID := uuid.New().String()
	claims := Claims{
		PlayerName: player,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			Subject:   player,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}
	return &models.PlayerSession{
		PlayerName: player,
		SessionID:  sessionID,
		Token:      token,
		IssuedAt:   now,
		ExpiresAt:  now.Add(i.ttl),
	}, nil
}

// Parse 校验令牌并返回会话信息
func (i *Issuer) Parse(token string) (*models.PlayerSession, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.PlayerName == "" {
		return nil, fmt.Errorf("%w: 缺少玩家名", ErrInvalidToken)
	}

	s := &models.PlayerSession{
		PlayerName: claims.PlayerName,
		SessionID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
