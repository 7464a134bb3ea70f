package protocol

import (
	"testing"

	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	in := ParseInput(InputPayload{Direction: "left", Attack: true})
	assert.Equal(t, models.DirLeft, in.Direction)
	assert.True(t, in.AttackPressed)

	in = ParseInput(InputPayload{Direction: "diagonal"})
	assert.Equal(t, models.DirNone, in.Direction)
	assert.False(t, in.AttackPressed)
}

func TestCodecByName(t *testing.T) {
	for name, want := range map[string]string{
		"":         CodecJSON,
		"json":     CodecJSON,
		"msgpack":  CodecMsgpack,
		"protobuf": CodecProtobuf,
		"proto":    CodecProtobuf,
	} {
		c, err := CodecByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, c.Name())
	}

	_, err := CodecByName("xml")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestCodecsCarryPayload(t *testing.T) {
	snap := models.Snapshot{
		Tick:  42,
		Wave:  3,
		Kills: 7,
		Player: models.PlayerView{
			EntityView: models.EntityView{
				ID:       "p1",
				Type:     models.EntityPlayer,
				Position: models.Vector2D{X: 10.5, Y: 20},
				Health:   80,
			},
			Level:   2,
			Weapons: []string{"magic_bolt"},
			Powers:  []string{},
		},
		Monsters: []models.EntityView{
			{ID: "m1", Type: models.EntityMonster, Subtype: "slime", Hint: "run"},
		},
	}

	for _, name := range []string{CodecJSON, CodecMsgpack, CodecProtobuf} {
		t.Run(name, func(t *testing.T) {
			c, err := CodecByName(name)
			require.NoError(t, err)

			env, err := NewEnvelope(MsgFrame, snap)
			require.NoError(t, err)
			data, err := c.Encode(env)
			require.NoError(t, err)

			got, err := c.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, MsgFrame, got.Type)

			var out models.Snapshot
			require.NoError(t, got.Decode(&out))
			assert.Equal(t, uint64(42), out.Tick)
			assert.Equal(t, 3, out.Wave)
			assert.Equal(t, "p1", out.Player.ID)
			assert.Equal(t, 10.5, out.Player.Position.X)
			assert.Equal(t, []string{"magic_bolt"}, out.Player.Weapons)
			require.Len(t, out.Monsters, 1)
			assert.Equal(t, "slime", out.Monsters[0].Subtype)
		})
	}
}

func TestCodecsWithoutPayload(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}, ProtobufCodec{}} {
		data, err := c.Encode(Envelope{Type: MsgPause})
		require.NoError(t, err)
		env, err := c.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, MsgPause, env.Type)
		assert.Empty(t, env.Payload)

		var p ChoosePayload
		assert.NoError(t, env.Decode(&p))
	}
}

func TestEventsPayload(t *testing.T) {
	env, err := NewEnvelope(MsgEvents, EventsPayload{Events: []event.Event{
		{Kind: event.MonsterDied, Tick: 5, EntityID: "m1", XP: 3, DropHint: "common"},
	}})
	require.NoError(t, err)

	data, err := MsgpackCodec{}.Encode(env)
	require.NoError(t, err)
	got, err := MsgpackCodec{}.Decode(data)
	require.NoError(t, err)

	var p EventsPayload
	require.NoError(t, got.Decode(&p))
	require.Len(t, p.Events, 1)
	assert.Equal(t, event.MonsterDied, p.Events[0].Kind)
	assert.Equal(t, 3.0, p.Events[0].XP)
	assert.Equal(t, "common", p.Events[0].DropHint)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte("{"))
	assert.Error(t, err)
	_, err = ProtobufCodec{}.Decode([]byte{0xff, 0xff})
	assert.Error(t, err)
}
