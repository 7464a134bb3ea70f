package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/jacl-coder/PixelStorm-Survival/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []*models.RunRecord
}

func (f *fakeRecorder) RecordRun(_ context.Context, rec *models.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func newTestSession(t *testing.T, rec RunRecorder) *Session {
	t.Helper()
	return NewSession("alice", newTestSimulation(t), SessionConfig{
		TickInterval:  time.Second / 60,
		SnapshotEvery: 2,
		IdleTimeout:   time.Minute,
	}, rec)
}

func drainOutbox(s *Session) []protocol.Envelope {
	var out []protocol.Envelope
	for {
		select {
		case env := <-s.outbox:
			out = append(out, env)
		default:
			return out
		}
	}
}

func countType(envs []protocol.Envelope, msgType string) int {
	n := 0
	for _, e := range envs {
		if e.Type == msgType {
			n++
		}
	}
	return n
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession(t, &fakeRecorder{})
	assert.Equal(t, models.SessionWaiting, s.Status())

	s.apply(command{kind: cmdStart})
	assert.Equal(t, models.SessionPlaying, s.Status())
	assert.Equal(t, 1, countType(drainOutbox(s), protocol.MsgFrame))

	for i := 0; i < 4; i++ {
		s.step(testDT)
	}
	envs := drainOutbox(s)
	assert.Equal(t, 2, countType(envs, protocol.MsgFrame))
	assert.GreaterOrEqual(t, countType(envs, protocol.MsgEvents), 1)

	s.apply(command{kind: cmdPause})
	assert.Equal(t, models.SessionPaused, s.Status())
	s.apply(command{kind: cmdStart})
	assert.Equal(t, models.SessionPaused, s.Status())
	s.apply(command{kind: cmdResume})
	assert.Equal(t, models.SessionPlaying, s.Status())

	info := s.Info()
	assert.Equal(t, "alice", info.PlayerName)
	assert.Equal(t, 1, info.Wave)
	assert.Equal(t, 1, info.Level)
}

func TestSessionDraftAndChoice(t *testing.T) {
	s := newTestSession(t, nil)
	s.apply(command{kind: cmdStart})
	s.step(testDT)
	drainOutbox(s)

	s.sim.Progress().AddXP(1000)
	s.step(testDT)
	envs := drainOutbox(s)
	require.Equal(t, 1, countType(envs, protocol.MsgDraft))

	var draft protocol.DraftPayload
	for _, e := range envs {
		if e.Type == protocol.MsgDraft {
			require.NoError(t, e.Decode(&draft))
		}
	}
	require.NotEmpty(t, draft.Cards)
	assert.Greater(t, draft.Pending, 1)

	// 候选未变化时不重复推送
	s.step(testDT)
	assert.Equal(t, 0, countType(drainOutbox(s), protocol.MsgDraft))

	s.apply(command{kind: cmdChoose, upgrade: draft.Cards[0].ID})
	envs = drainOutbox(s)
	assert.Equal(t, 1, countType(envs, protocol.MsgDraft))
	assert.Equal(t, 1, countType(envs, protocol.MsgFrame))

	s.apply(command{kind: cmdChoose, upgrade: "not_offered"})
	assert.Equal(t, 1, countType(drainOutbox(s), protocol.MsgError))
}

func TestSessionRecordsRunOnDeath(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, rec)
	s.apply(command{kind: cmdStart})
	drainOutbox(s)

	s.sim.Player().TakeDamage(1e6, s.sim.World())
	for i := 0; i < 200 && s.Status() == models.SessionPlaying; i++ {
		s.step(0.1)
	}
	require.Equal(t, models.SessionEnded, s.Status())
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "alice", rec.records[0].PlayerName)
	assert.Equal(t, rec.records[0], s.LastRecord())

	var end protocol.RunEndPayload
	for _, e := range drainOutbox(s) {
		if e.Type == protocol.MsgRunEnd {
			require.NoError(t, e.Decode(&end))
		}
	}
	assert.Equal(t, rec.records[0].ID, end.RunID)
	assert.Equal(t, rec.records[0].Score, end.Score)

	// 结束后可以重新开始
	s.apply(command{kind: cmdStart})
	assert.Equal(t, models.SessionPlaying, s.Status())
	assert.False(t, s.sim.Over())
}

func TestSessionCommandsAfterStop(t *testing.T) {
	s := newTestSession(t, nil)
	s.Run()
	require.NoError(t, s.Start())
	require.Eventually(t, func() bool {
		return s.Status() == models.SessionPlaying
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.ErrorIs(t, s.Pause(), ErrSessionClosed)
	assert.Equal(t, models.SessionEnded, s.Status())

	select {
	case <-s.Done():
	default:
		t.Fatal("Done 未关闭")
	}
}

func TestSessionCleanup(t *testing.T) {
	s := newTestSession(t, nil)
	now := time.Now()
	assert.False(t, s.ShouldCleanup(now))
	assert.True(t, s.ShouldCleanup(now.Add(2*time.Minute)))

	s.cfg.IdleTimeout = 0
	assert.False(t, s.ShouldCleanup(now.Add(time.Hour)))
}
