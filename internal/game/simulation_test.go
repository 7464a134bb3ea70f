package game

import (
	"testing"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDT = 1.0 / 60

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 7
	s, err := NewSimulation(catalog.Default(), opts)
	require.NoError(t, err)
	return s
}

func hasKind(events []event.Event, k event.Kind) bool {
	for _, e := range events {
		if e.Kind == k {
			return true
		}
	}
	return false
}

func offset(p models.Vector2D, dx, dy float64) models.Vector2D {
	return models.Vector2D{X: p.X + dx, Y: p.Y + dy}
}

func TestNewSimulationRejectsBadCatalog(t *testing.T) {
	_, err := NewSimulation(nil, DefaultOptions())
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)

	bad := catalog.Default()
	bad.MonsterOrder = nil
	_, err = NewSimulation(bad, DefaultOptions())
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestFirstTick(t *testing.T) {
	s := newTestSimulation(t)
	events := s.Tick(testDT, entity.InputSnapshot{})

	assert.True(t, hasKind(events, event.WaveStarted))
	assert.Equal(t, 1, s.Scheduler().Wave())
	assert.NotEmpty(t, s.projectiles, "起始武器在第一帧发射")

	assert.Nil(t, s.Tick(0, entity.InputSnapshot{}))
	assert.Nil(t, s.Tick(-1, entity.InputSnapshot{}))
}

func TestKillGrantsXPAndStats(t *testing.T) {
	s := newTestSimulation(t)
	p := s.Player()
	m, err := s.AddMonster("slime", offset(p.Position, 300, 0))
	require.NoError(t, err)

	m.TakeDamage(1000, s.World())
	assert.Equal(t, 1.0, p.XP)

	sum := s.Summary()
	assert.Equal(t, 1, sum.Kills)
	assert.Equal(t, 1, sum.ByType["slime"])

	events := s.Tick(testDT, entity.InputSnapshot{})
	require.True(t, hasKind(events, event.MonsterDied))
	for _, e := range events {
		if e.Kind == event.MonsterDied {
			assert.Equal(t, "common", e.DropHint)
			assert.Equal(t, 1.0, e.XP)
		}
	}

	_, err = s.AddMonster("dragon", p.Position)
	assert.ErrorIs(t, err, catalog.ErrUnknownMonster)
}

func TestClearScreenSparesBoss(t *testing.T) {
	s := newTestSimulation(t)
	p := s.Player()
	for i := 0; i < 3; i++ {
		_, err := s.AddMonster("skeleton", offset(p.Position, 200+float64(i)*40, 0))
		require.NoError(t, err)
	}
	boss, err := s.AddMonster("orc", offset(p.Position, -300, 0))
	require.NoError(t, err)
	boss.Boss = true

	assert.Equal(t, 3, s.ClearScreen())
	assert.Equal(t, 3, s.Summary().Kills)
	assert.False(t, boss.IsDead())
	assert.Equal(t, 0, s.ClearScreen())
}

func TestBossDeathEmitsScreenClear(t *testing.T) {
	s := newTestSimulation(t)
	boss, err := s.AddMonster("orc", offset(s.Player().Position, 400, 0))
	require.NoError(t, err)
	boss.Boss = true

	boss.TakeDamage(1e6, s.World())
	events := s.queue.Drain()
	assert.True(t, hasKind(events, event.ScreenClear))
}

func TestPauseOnDraft(t *testing.T) {
	s := newTestSimulation(t)
	s.Tick(testDT, entity.InputSnapshot{})

	s.Progress().AddXP(catalog.XPNeeded(1))
	require.True(t, s.Progress().HasDraft())

	tick := s.tick
	assert.Nil(t, s.Tick(testDT, entity.InputSnapshot{}))
	assert.Equal(t, tick, s.tick)

	cards := s.Draft()
	require.NotEmpty(t, cards)
	require.NoError(t, s.ChooseUpgrade(cards[0].ID))
	assert.False(t, s.Progress().HasDraft())

	s.Tick(testDT, entity.InputSnapshot{})
	assert.Equal(t, tick+1, s.tick)
}

func TestPlayerDeathEndsRun(t *testing.T) {
	s := newTestSimulation(t)
	p := s.Player()
	p.TakeDamage(1e6, s.World())
	require.True(t, p.IsDead())

	var sawDeath bool
	for i := 0; i < 200 && !s.Over(); i++ {
		if hasKind(s.Tick(0.1, entity.InputSnapshot{}), event.PlayerDied) {
			sawDeath = true
		}
	}
	assert.True(t, sawDeath)
	assert.True(t, s.Over())
	assert.Nil(t, s.Tick(testDT, entity.InputSnapshot{}))
	assert.ErrorIs(t, s.ChooseUpgrade("might"), ErrRunOver)

	s.Reset()
	assert.False(t, s.Over())
	assert.False(t, p.IsDead())
	assert.Equal(t, 0, s.Summary().Kills)
	assert.Equal(t, 1, p.Level)
	assert.Len(t, p.Weapons, 1)
}

func TestMovementFollowsInput(t *testing.T) {
	s := newTestSimulation(t)
	start := s.Player().Position
	for i := 0; i < 10; i++ {
		s.Tick(testDT, entity.InputSnapshot{Direction: models.DirRight})
	}
	assert.Greater(t, s.Player().Position.X, start.X)
	assert.Equal(t, models.DirRight, s.Player().Facing)
}

func TestAnimationReport(t *testing.T) {
	s := newTestSimulation(t)
	m, err := s.AddMonster("slime", offset(s.Player().Position, 500, 0))
	require.NoError(t, err)

	assert.True(t, s.AnimationReport(s.Player().ID, 0, false))
	assert.True(t, s.AnimationReport(m.ID, 0, false))
	assert.False(t, s.AnimationReport("nobody", 0, true))
}

func TestSnapshot(t *testing.T) {
	s := newTestSimulation(t)
	m, err := s.AddMonster("bat", offset(s.Player().Position, 500, 0))
	require.NoError(t, err)
	s.Tick(testDT, entity.InputSnapshot{})

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, []string{"magic_bolt"}, snap.Player.Weapons)
	assert.Equal(t, models.EntityPlayer, snap.Player.Type)
	assert.Equal(t, catalog.XPNeeded(1), snap.Player.XPNeeded)

	var found bool
	for _, v := range snap.Monsters {
		if v.ID == m.ID {
			found = true
			assert.Equal(t, "bat", v.Subtype)
			assert.NotEmpty(t, v.Hint)
		}
	}
	assert.True(t, found)
	assert.NotEmpty(t, snap.Projectiles)

	m.Kill(s.World())
	assert.Equal(t, entity.HintDeath, monsterHint(m))
}
