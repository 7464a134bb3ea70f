// codec.go

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrUnknownCodec 未知的编码名
var ErrUnknownCodec = errors.New("未知的编码格式")

// 编码名称
const (
	CodecJSON     = "json"
	CodecMsgpack  = "msgpack"
	CodecProtobuf = "protobuf"
)

// Codec 消息编解码器
type Codec interface {
	Name() string
	Encode(env Envelope) ([]byte, error)
	Decode(data []byte) (Envelope, error)
	// Binary 为真时使用websocket二进制帧
	Binary() bool
}

// CodecByName 按名称获取编解码器，空名称返回JSON
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	case CodecProtobuf, "proto":
		return ProtobufCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
}

// JSONCodec 文本JSON
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }
func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (JSONCodec) Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("解析消息失败: %w", err)
	}
	return env, nil
}

// genericEnvelope 载荷展开为通用值，供二进制编码使用
type genericEnvelope struct {
	Type    string      `msgpack:"type"`
	Payload interface{} `msgpack:"payload,omitempty"`
}

func toGeneric(env Envelope) (genericEnvelope, error) {
	g := genericEnvelope{Type: env.Type}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &g.Payload); err != nil {
			return g, err
		}
	}
	return g, nil
}

func fromGeneric(g genericEnvelope) (Envelope, error) {
	env := Envelope{Type: g.Type}
	if g.Payload == nil {
		return env, nil
	}
	data, err := json.Marshal(g.Payload)
	if err != nil {
		return env, err
	}
	env.Payload = data
	return env, nil
}

// MsgpackCodec MessagePack二进制
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }
func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(env Envelope) ([]byte, error) {
	g, err := toGeneric(env)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&g)
}

func (MsgpackCodec) Decode(data []byte) (Envelope, error) {
	var g genericEnvelope
	if err := msgpack.Unmarshal(data, &g); err != nil {
		return Envelope{}, fmt.Errorf("解析msgpack消息失败: %w", err)
	}
	return fromGeneric(g)
}

// ProtobufCodec 以 google.protobuf.Struct 承载消息
type ProtobufCodec struct{}

func (ProtobufCodec) Name() string { return CodecProtobuf }
func (ProtobufCodec) Binary() bool { return true }

func (ProtobufCodec) Encode(env Envelope) ([]byte, error) {
	g, err := toGeneric(env)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"type": g.Type}
	if g.Payload != nil {
		fields["payload"] = g.Payload
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("构造protobuf消息失败: %w", err)
	}
	return proto.Marshal(st)
}

func (ProtobufCodec) Decode(data []byte) (Envelope, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return Envelope{}, fmt.Errorf("解析protobuf消息失败: %w", err)
	}
	fields := st.AsMap()
	msgType, _ := fields["type"].(string)
	return fromGeneric(genericEnvelope{Type: msgType, Payload: fields["payload"]})
}
