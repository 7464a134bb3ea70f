package entity

import (
	"math"
	"testing"

	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerHealthMonotonicity(t *testing.T) {
	h := &recordingHooks{}
	w := testWorld(h)
	p := testPlayer(500, 500)

	amounts := []float64{5, 0, -10, math.NaN(), math.Inf(1), 30, 1000, 7}
	for _, a := range amounts {
		before := p.Health
		p.TakeDamage(a, w)
		assert.LessOrEqual(t, p.Health, before, "伤害 %v 不应增加生命", a)
		assert.GreaterOrEqual(t, p.Health, 0.0)
	}

	require.Equal(t, StateDead, p.State)
	assert.Equal(t, 0.0, p.Health)
	assert.Equal(t, 1, h.playerDeaths)

	assert.Equal(t, 0.0, p.TakeDamage(50, w))
	p.Heal(20)
	assert.Equal(t, 0.0, p.Health)
	assert.Equal(t, StateDead, p.State)
	assert.Equal(t, 1, h.playerDeaths)
}

func TestPlayerArmorFloor(t *testing.T) {
	for _, armor := range []float64{0, 3, 10, 1e6} {
		p := testPlayer(0, 0)
		p.Stats.Armor = armor
		dealt := p.TakeDamage(5, nil)
		assert.GreaterOrEqual(t, dealt, 1.0, "护甲 %v", armor)
		assert.Equal(t, p.MaxHealth-dealt, p.Health)
	}
}

func TestPlayerHurtResumesPreviousState(t *testing.T) {
	w := testWorld(nil)
	p := testPlayer(500, 500)
	right := InputSnapshot{Direction: models.DirRight}

	p.Update(1.0/60, right, w)
	require.Equal(t, StateMoving, p.State)

	p.TakeDamage(10, w)
	require.Equal(t, StateHurt, p.State)
	assert.Equal(t, HintHurt, p.Hint())

	p.Update(0.1, right, w)
	assert.Equal(t, StateHurt, p.State)

	p.Update(0.2, right, w)
	assert.Equal(t, StateMoving, p.State)
}

func TestPlayerHitWhileAttackingKeepsAttacking(t *testing.T) {
	p := testPlayer(500, 500)
	require.True(t, p.BeginAttack())

	p.TakeDamage(10, nil)
	assert.Equal(t, StateAttacking, p.State)
	assert.Equal(t, 90.0, p.Health)
}

func TestPlayerImpactFrames(t *testing.T) {
	w := testWorld(nil)
	p := testPlayer(500, 500)
	require.True(t, p.BeginAttack())
	assert.Equal(t, 0, p.AttackFrame())
	assert.False(t, p.IsImpactFrame())

	var impacts []int
	for i := 0; i < 5; i++ {
		p.Update(0.06, InputSnapshot{}, w)
		if p.IsImpactFrame() {
			impacts = append(impacts, p.AttackFrame())
		}
	}
	assert.Equal(t, []int{2, 3}, impacts)

	p.Update(0.06, InputSnapshot{}, w)
	assert.Equal(t, StateIdle, p.State)
	assert.Equal(t, -1, p.AttackFrame())
}

func TestPlayerHitSetClearedPerAttack(t *testing.T) {
	p := testPlayer(0, 0)
	require.True(t, p.BeginAttack())
	p.MarkHit("m1")
	assert.True(t, p.HasHit("m1"))
	first := p.AttackSeq()

	p.State = StateIdle
	require.True(t, p.BeginAttack())
	assert.False(t, p.HasHit("m1"))
	assert.Equal(t, first+1, p.AttackSeq())
}

func TestPlayerAttackRespectsCooldown(t *testing.T) {
	w := testWorld(nil)
	p := testPlayer(500, 500)
	attack := InputSnapshot{AttackPressed: true}

	p.Update(0.01, attack, w)
	require.Equal(t, StateAttacking, p.State)
	seq := p.AttackSeq()

	// 攻击动画 0.36 秒，冷却 0.6 秒
	for i := 0; i < 40; i++ {
		p.Update(0.01, attack, w)
	}
	assert.Equal(t, seq, p.AttackSeq())

	for i := 0; i < 25; i++ {
		p.Update(0.01, attack, w)
	}
	assert.Equal(t, seq+1, p.AttackSeq())
}

func TestPlayerEffectiveCooldownCapped(t *testing.T) {
	p := testPlayer(0, 0)
	p.Stats.CooldownReduction = 0.2
	assert.InDelta(t, 0.8, p.EffectiveCooldown(1), 1e-9)

	p.Stats.CooldownReduction = 0.95
	assert.InDelta(t, 0.25, p.EffectiveCooldown(1), 1e-9)
}

func TestPlayerMovementClampedToBounds(t *testing.T) {
	w := testWorld(nil)
	p := testPlayer(1999, 10)
	p.Update(1, InputSnapshot{Direction: models.DirRight}, w)
	assert.Equal(t, 2000.0, p.Position.X)
	assert.Equal(t, models.DirRight, p.Facing)

	p.Update(1, InputSnapshot{Direction: models.DirUp}, w)
	assert.Equal(t, 0.0, p.Position.Y)
	assert.Equal(t, models.DirUp, p.Facing)
}

func TestPlayerWatchdogRecoversStuckAttack(t *testing.T) {
	h := &recordingHooks{}
	w := testWorld(h)
	w.WatchdogTicks = 5
	w.ExternalAnimation = true
	p := testPlayer(500, 500)

	p.Update(1.0/60, InputSnapshot{AttackPressed: true}, w)
	require.Equal(t, StateAttacking, p.State)

	for i := 0; i < 10; i++ {
		p.Update(1.0/60, InputSnapshot{}, w)
	}
	assert.Equal(t, StateIdle, p.State)
	assert.Equal(t, []string{HintAttack}, h.recovered)
}

func TestPlayerExternalAttackCompletes(t *testing.T) {
	w := testWorld(nil)
	w.ExternalAnimation = true
	w.WatchdogTicks = 100
	p := testPlayer(500, 500)

	p.Update(1.0/60, InputSnapshot{AttackPressed: true}, w)
	p.Anim.Advance(2)
	assert.True(t, p.IsImpactFrame())

	p.Anim.Complete()
	p.Update(1.0/60, InputSnapshot{}, w)
	assert.Equal(t, StateIdle, p.State)
}

func TestPlayerDeathFinishes(t *testing.T) {
	w := testWorld(nil)
	p := testPlayer(0, 0)
	p.TakeDamage(p.Health, w)
	require.Equal(t, StateDead, p.State)
	assert.False(t, p.DeathFinished())

	p.Update(0.5, InputSnapshot{}, w)
	p.Update(0.6, InputSnapshot{}, w)
	assert.True(t, p.DeathFinished())
}

func TestPlayerSetState(t *testing.T) {
	t.Run("死亡为终止状态", func(t *testing.T) {
		p := testPlayer(500, 500)
		p.TakeDamage(p.Health, nil)
		require.Equal(t, StateDead, p.State)
		for _, s := range []LifeState{StateIdle, StateMoving, StateAttacking, StateHurt} {
			p.SetState(s)
			assert.Equal(t, StateDead, p.State)
		}
	})

	t.Run("不能直接设置死亡", func(t *testing.T) {
		p := testPlayer(500, 500)
		p.SetState(StateDead)
		assert.Equal(t, StateIdle, p.State)
		assert.Equal(t, 100.0, p.Health)
	})

	t.Run("硬直结束后恢复原状态", func(t *testing.T) {
		w := testWorld(nil)
		p := testPlayer(500, 500)
		p.SetState(StateMoving)
		p.SetState(StateHurt)
		require.Equal(t, StateHurt, p.State)
		assert.Equal(t, HintHurt, p.Anim.Name)

		p.Update(0.3, InputSnapshot{Direction: models.DirRight}, w)
		assert.Equal(t, StateMoving, p.State)
	})

	t.Run("攻击播放一次性片段后回到待机", func(t *testing.T) {
		w := testWorld(nil)
		w.WatchdogTicks = 90
		p := testPlayer(500, 500)
		seq := p.AttackSeq()

		p.SetState(StateAttacking)
		require.Equal(t, StateAttacking, p.State)
		assert.Equal(t, seq+1, p.AttackSeq())
		assert.Equal(t, HintAttack, p.Anim.Name)
		assert.False(t, p.Anim.Loop)

		for i := 0; i < 7; i++ {
			p.Update(0.06, InputSnapshot{}, w)
		}
		assert.Equal(t, StateIdle, p.State)
	})
}

func TestPlayerImpactWithCoarseStep(t *testing.T) {
	w := testWorld(nil)

	// 一步越过判定帧
	p := testPlayer(500, 500)
	require.True(t, p.BeginAttack())
	p.Update(0.25, InputSnapshot{}, w)
	assert.Equal(t, 4, p.AttackFrame())
	assert.True(t, p.IsImpactFrame())

	p.Update(0.25, InputSnapshot{}, w)
	assert.Equal(t, -1, p.AttackFrame())
	assert.False(t, p.IsImpactFrame())

	// 一步播完整个片段时多保留一tick
	p = testPlayer(500, 500)
	require.True(t, p.BeginAttack())
	p.Update(0.4, InputSnapshot{}, w)
	require.Equal(t, StateAttacking, p.State)
	assert.True(t, p.IsImpactFrame())

	p.Update(1.0/60, InputSnapshot{}, w)
	assert.Equal(t, StateIdle, p.State)
	assert.False(t, p.IsImpactFrame())
}
