// websocket.go

package game

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/jacl-coder/PixelStorm-Survival/internal/protocol"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 允许所有跨域请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PlayerConnection 玩家连接
type PlayerConnection struct {
	Player  *models.PlayerSession
	Session *Session
	codec   protocol.Codec
	conn    *websocket.Conn
}

// bearerToken 从查询参数或 Authorization 头读取令牌
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// handleWSConnection 校验令牌后升级连接并创建会话
func (s *GameServer) handleWSConnection(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" || s.issuer == nil {
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}
	player, err := s.issuer.Parse(token)
	if err != nil {
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}

	codec := s.codec
	if name := r.URL.Query().Get("codec"); name != "" {
		if codec, err = protocol.CodecByName(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	session, err := s.CreateSession(player.PlayerName)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrSessionFull) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		s.RemoveSession(session.ID)
		return
	}

	pc := &PlayerConnection{
		Player:  player,
		Session: session,
		codec:   codec,
		conn:    conn,
	}
	log.Printf("玩家 %s 已连接，会话 %s，编码 %s", player.PlayerName, session.ID, codec.Name())

	go s.writePump(pc)
	go s.readPump(pc)
}

// readPump 从WebSocket读取数据
func (s *GameServer) readPump(pc *PlayerConnection) {
	defer func() {
		s.closeConnection(pc)
	}()

	conn := pc.conn
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket错误: %v", err)
			}
			break
		}

		env, err := pc.codec.Decode(data)
		if err != nil {
			log.Printf("解析消息失败: %v", err)
			continue
		}
		if err := s.handleMessage(pc, env); err != nil {
			if errors.Is(err, ErrSessionClosed) {
				break
			}
			log.Printf("处理消息 %s 失败: %v", env.Type, err)
		}
	}
}

// writePump 向WebSocket写入数据
func (s *GameServer) writePump(pc *PlayerConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		pc.conn.Close()
	}()

	msgType := websocket.TextMessage
	if pc.codec.Binary() {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case env := <-pc.Session.Outbox():
			data, err := pc.codec.Encode(env)
			if err != nil {
				log.Printf("编码消息失败: %v", err)
				continue
			}
			pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := pc.conn.WriteMessage(msgType, data); err != nil {
				return
			}
		case <-ticker.C:
			pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := pc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-pc.Session.Done():
			pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			pc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// closeConnection 断开时结束会话
func (s *GameServer) closeConnection(pc *PlayerConnection) {
	if err := s.RemoveSession(pc.Session.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		log.Printf("移除会话失败: %v", err)
	}
	pc.conn.Close()
	log.Printf("玩家 %s 已断开连接", pc.Player.PlayerName)
}

// handleMessage 处理接收到的消息
func (s *GameServer) handleMessage(pc *PlayerConnection, env protocol.Envelope) error {
	session := pc.Session
	switch env.Type {
	case protocol.MsgStart:
		return session.Start()
	case protocol.MsgInput:
		var p protocol.InputPayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		return session.SetInput(protocol.ParseInput(p))
	case protocol.MsgChooseUpgrade:
		var p protocol.ChoosePayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		return session.Choose(p.ID)
	case protocol.MsgPause:
		return session.Pause()
	case protocol.MsgResume:
		return session.Resume()
	case protocol.MsgAnimation:
		var p protocol.AnimationPayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		return session.ReportAnimation(p.EntityID, p.Frame, p.Complete)
	default:
		log.Printf("未知消息类型: %s", env.Type)
	}
	return nil
}
