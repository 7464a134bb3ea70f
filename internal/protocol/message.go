// message.go

package protocol

import (
	"encoding/json"

	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// 客户端发往服务器的消息类型
const (
	MsgStart         = "start"
	MsgInput         = "input"
	MsgChooseUpgrade = "choose_upgrade"
	MsgPause         = "pause"
	MsgResume        = "resume"
	MsgAnimation     = "anim"
)

// 服务器发往客户端的消息类型
const (
	MsgFrame  = "frame"
	MsgDraft  = "draft"
	MsgEvents = "events"
	MsgRunEnd = "run_end"
	MsgError  = "error"
)

// Envelope 消息外层结构
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// InputPayload 输入快照
type InputPayload struct {
	Direction string `json:"direction"`
	Attack    bool   `json:"attack"`
}

// ChoosePayload 选择升级
type ChoosePayload struct {
	ID string `json:"id"`
}

// AnimationPayload 渲染端汇报动画进度
type AnimationPayload struct {
	EntityID string `json:"entity_id"`
	Frame    int    `json:"frame"`
	Complete bool   `json:"complete"`
}

// DraftCard 升级候选
type DraftCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	Level       int    `json:"level"`
	New         bool   `json:"new"`
}

// DraftPayload 待选升级
type DraftPayload struct {
	Cards   []DraftCard `json:"cards"`
	Pending int         `json:"pending"`
}

// EventsPayload 一帧内的事件
type EventsPayload struct {
	Events []event.Event `json:"events"`
}

// RunEndPayload 结算信息
type RunEndPayload struct {
	RunID    string         `json:"run_id"`
	Wave     int            `json:"wave"`
	Level    int            `json:"level"`
	Kills    int            `json:"kills"`
	Survived float64        `json:"survived"`
	Score    int            `json:"score"`
	ByType   map[string]int `json:"by_type,omitempty"`
}

// ErrorPayload 错误提示
type ErrorPayload struct {
	Message string `json:"message"`
}

// FramePayload 快照帧
type FramePayload = models.Snapshot

// ParseInput 把输入消息转换为模拟输入快照，未知方向视为不移动
func ParseInput(p InputPayload) entity.InputSnapshot {
	return entity.InputSnapshot{
		Direction:     models.ParseDirection(p.Direction),
		AttackPressed: p.Attack,
	}
}

// NewEnvelope 构造带载荷的消息
func NewEnvelope(msgType string, payload interface{}) (Envelope, error) {
	env := Envelope{Type: msgType}
	if payload == nil {
		return env, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return env, err
	}
	env.Payload = data
	return env, nil
}

// Decode 解析载荷
func (e Envelope) Decode(v interface{}) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}
