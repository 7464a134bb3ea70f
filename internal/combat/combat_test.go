package combat

import (
	"math"
	"testing"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayer(x, y float64) *entity.Player {
	return entity.NewPlayer(catalog.Default().Player, models.Vector2D{X: x, Y: y})
}

func newMonster(t *testing.T, id string, x, y float64, target *entity.Player) *entity.Monster {
	t.Helper()
	c := catalog.Default()
	stats, err := c.Monster(id)
	require.NoError(t, err)
	return entity.NewMonster(stats, c.Tunables(stats.Variant), models.Vector2D{X: x, Y: y}, target)
}

func testWorld() *entity.World {
	return &entity.World{Bounds: models.Bounds{Width: 2000, Height: 2000}}
}

func TestCollide(t *testing.T) {
	tests := []struct {
		name string
		a, b Circle
		want bool
	}{
		{"重叠", Circle{models.Vector2D{X: 0, Y: 0}, 10}, Circle{models.Vector2D{X: 15, Y: 0}, 10}, true},
		{"恰好相切不算碰撞", Circle{models.Vector2D{X: 0, Y: 0}, 10}, Circle{models.Vector2D{X: 20, Y: 0}, 10}, false},
		{"分离", Circle{models.Vector2D{X: 0, Y: 0}, 5}, Circle{models.Vector2D{X: 30, Y: 40}, 5}, false},
		{"同心", Circle{models.Vector2D{X: 3, Y: 3}, 1}, Circle{models.Vector2D{X: 3, Y: 3}, 1}, true},
		{"NaN坐标", Circle{models.Vector2D{X: math.NaN(), Y: 0}, 10}, Circle{models.Vector2D{}, 10}, false},
		{"无穷坐标", Circle{models.Vector2D{X: 0, Y: math.Inf(1)}, 10}, Circle{models.Vector2D{}, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collide(tt.a, tt.b))
			assert.Equal(t, tt.want, Collide(tt.b, tt.a))
		})
	}
}

func TestCooldownTracker(t *testing.T) {
	c := NewCooldownTracker(0.5)
	assert.True(t, c.Ready("a"))

	c.Trigger("a")
	c.Trigger("b")
	assert.False(t, c.Ready("a"))

	c.Tick(0.25)
	assert.InDelta(t, 0.25, c.Remaining("a"), 1e-9)

	c.Purge(func(key string) bool { return key == "a" })
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Ready("b"))

	c.Tick(0.25)
	assert.True(t, c.Ready("a"))
	assert.Equal(t, 0, c.Len())
}

func TestTouchDamageCadence(t *testing.T) {
	sys := NewSystem(Config{TouchCooldown: 0.5}, testWorld())
	p := newPlayer(500, 500)
	m := newMonster(t, "slime", 510, 500, p)
	monsters := []*entity.Monster{m}

	var hitTicks []int
	for tick := 0; tick < 12; tick++ {
		before := p.Health
		sys.ResolveTouch(0.125, monsters, p)
		if p.Health < before {
			hitTicks = append(hitTicks, tick)
		}
	}
	assert.Equal(t, []int{0, 4, 8}, hitTicks)
	assert.Equal(t, 85.0, p.Health)
}

func TestTouchCooldownsAreIndependentAndPurged(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	p := newPlayer(500, 500)
	a := newMonster(t, "slime", 510, 500, p)
	b := newMonster(t, "slime", 490, 500, p)

	sys.ResolveTouch(0.1, []*entity.Monster{a, b}, p)
	assert.Equal(t, 90.0, p.Health)
	assert.Equal(t, 2, sys.TouchCooldowns().Len())

	sys.ResolveTouch(0.1, []*entity.Monster{a}, p)
	assert.Equal(t, 90.0, p.Health)
	assert.Equal(t, 1, sys.TouchCooldowns().Len())
	assert.True(t, sys.TouchCooldowns().Ready(b.ID))
}

func TestPassiveCreatureDealsNoTouchDamage(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	p := newPlayer(500, 500)
	rabbit := newMonster(t, "rabbit", 505, 500, p)

	sys.ResolveTouch(0.1, []*entity.Monster{rabbit}, p)
	assert.Equal(t, 100.0, p.Health)
}

func TestMeleeHitDedupWithinAttack(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	p := newPlayer(500, 500)
	m := newMonster(t, "slime", 500, 540, p)
	monsters := []*entity.Monster{m}

	sys.ResolveMelee(p, monsters)
	assert.Equal(t, 30.0, m.Health, "未攻击时不造成伤害")

	require.True(t, p.BeginAttack())
	sys.ResolveMelee(p, monsters)
	assert.Equal(t, 30.0, m.Health, "非判定帧不造成伤害")

	p.Anim.Advance(2)
	res := sys.ResolveMelee(p, monsters)
	assert.Equal(t, 10.0, m.Health)
	assert.Equal(t, 1, res.Hits)

	p.Anim.Advance(3)
	sys.ResolveMelee(p, monsters)
	assert.Equal(t, 10.0, m.Health, "同一次攻击只命中一次")

	p.State = entity.StateIdle
	require.True(t, p.BeginAttack())
	p.Anim.Advance(2)
	sys.ResolveMelee(p, monsters)
	assert.Equal(t, 0.0, m.Health)
	assert.Equal(t, entity.StateDead, m.State)
}

func TestProjectilePierceExhaustion(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	targets := []*entity.Monster{
		newMonster(t, "golem", 200, 100, nil),
		newMonster(t, "golem", 300, 100, nil),
		newMonster(t, "golem", 400, 100, nil),
	}
	p := NewProjectile("knives", models.Vector2D{X: 100, Y: 100}, models.Vector2D{X: 1}, 100, 5, 10, 2, 10)

	for i, m := range targets {
		p.Position = m.Position
		sys.ResolveProjectiles([]*Projectile{p}, targets)
		assert.Equal(t, 190.0, m.Health)
		if i < 2 {
			assert.False(t, p.Dead, "第 %d 次命中后仍存在", i+1)
		} else {
			assert.True(t, p.Dead, "第3次命中后销毁")
		}
	}
	assert.Equal(t, 0, p.Pierce)
	assert.Len(t, p.HitEntities, 3)
}

func TestProjectileSameTickPierceAndNoRepeat(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	var stack []*entity.Monster
	for i := 0; i < 4; i++ {
		stack = append(stack, newMonster(t, "golem", 100, 100, nil))
	}
	p := NewProjectile("magic_bolt", models.Vector2D{X: 100, Y: 100}, models.Vector2D{X: 1}, 100, 5, 10, 2, 10)

	res := sys.ResolveProjectiles([]*Projectile{p}, stack)
	assert.Equal(t, 3, res.Hits)
	assert.True(t, p.Dead)
	assert.Equal(t, 200.0, stack[3].Health)

	q := NewProjectile("magic_bolt", models.Vector2D{X: 100, Y: 100}, models.Vector2D{X: 1}, 100, 5, 10, 5, 10)
	sys.ResolveProjectiles([]*Projectile{q}, stack[:1])
	sys.ResolveProjectiles([]*Projectile{q}, stack[:1])
	assert.Equal(t, 180.0, stack[0].Health, "同一投射物不重复命中")
}

func TestOrbitalPerMonsterCooldown(t *testing.T) {
	sys := NewSystem(Config{OrbitalHitCooldown: 0.5}, testWorld())
	m := newMonster(t, "golem", 300, 300, nil)
	o := NewOrbital("orbit_blades", models.Vector2D{X: 300, Y: 300}, 0, 0, 0, 10, 8, 10)

	for i := 0; i < 8; i++ {
		sys.ResolveOrbitals(0.125, []*Orbital{o}, []*entity.Monster{m})
	}
	assert.Equal(t, 184.0, m.Health)
	assert.False(t, o.Dead)

	other := NewOrbital("orbit_blades", models.Vector2D{X: 300, Y: 300}, 0, 0, 0, 10, 8, 10)
	sys.ResolveOrbitals(0.01, []*Orbital{o, other}, []*entity.Monster{m})
	assert.Equal(t, 176.0, m.Health, "不同环绕物冷却独立")
}

func TestMonsterKilledThisTickDealsNoTouchDamage(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	p := newPlayer(500, 500)
	p.BaseDamage = 100
	m := newMonster(t, "slime", 500, 520, p)

	require.True(t, p.BeginAttack())
	p.Anim.Advance(2)

	res := sys.Resolve(0.1, p, []*entity.Monster{m}, nil, nil, nil)
	assert.Equal(t, entity.StateDead, m.State)
	assert.Equal(t, 100.0, p.Health)
	assert.Equal(t, 0.0, res.DamageTaken)
	assert.Equal(t, 30.0, res.DamageDealt)
}

func TestInvalidPositionsSkippedAndDropped(t *testing.T) {
	sys := NewSystem(Config{}, testWorld())
	p := newPlayer(500, 500)
	good := newMonster(t, "slime", 510, 500, p)
	bad := newMonster(t, "slime", 510, 500, p)
	bad.Position.X = math.NaN()

	proj := NewProjectile("knives", models.Vector2D{X: math.Inf(1), Y: 0}, models.Vector2D{X: 1}, 100, 5, 10, 0, 10)

	assert.NotPanics(t, func() {
		sys.Resolve(0.1, p, []*entity.Monster{good, bad}, []*Projectile{proj}, nil, nil)
	})
	assert.True(t, bad.IsRemovable())
	assert.True(t, proj.Dead)
	assert.Equal(t, 95.0, p.Health, "只有有效怪物造成接触伤害")
	assert.Equal(t, 1, sys.TouchCooldowns().Len())
}

func TestMonsterStrikeAndEnemyShots(t *testing.T) {
	w := testWorld()
	sys := NewSystem(Config{}, w)
	p := newPlayer(520, 500)
	m := newMonster(t, "slime", 500, 500, p)

	m.Update(0.01, w)
	require.Equal(t, entity.StateAttacking, m.State)
	for i := 0; i < 3; i++ {
		m.Update(0.08, w)
	}
	res := sys.ResolveMonsterAttacks([]*entity.Monster{m}, p)
	assert.Equal(t, 5.0, res.DamageTaken)
	assert.Equal(t, 95.0, p.Health)

	res = sys.ResolveMonsterAttacks([]*entity.Monster{m}, p)
	assert.Equal(t, 0.0, res.DamageTaken)

	shot := NewEnemyShot(m.ID, p.Position, models.Vector2D{X: 1}, 240, 6, 9, 3)
	miss := NewEnemyShot(m.ID, models.Vector2D{X: 900, Y: 900}, models.Vector2D{X: 1}, 240, 6, 9, 3)
	sys.ResolveEnemyShots([]*EnemyShot{shot, miss}, p)
	assert.True(t, shot.Dead)
	assert.False(t, miss.Dead)
	assert.Equal(t, 86.0, p.Health)
}

func TestProjectileLifetimeAndOrbitalMotion(t *testing.T) {
	p := NewProjectile("knives", models.Vector2D{}, models.Vector2D{X: 3, Y: 4}, 100, 5, 10, 0, 1)
	p.Update(0.5)
	assert.InDelta(t, 30.0, p.Position.X, 1e-9)
	assert.InDelta(t, 40.0, p.Position.Y, 1e-9)
	assert.False(t, p.Dead)
	p.Update(0.5)
	assert.True(t, p.Dead)

	o := NewOrbital("orbit_blades", models.Vector2D{X: 100, Y: 100}, 0, math.Pi, 50, 10, 5, 3)
	assert.InDelta(t, 150.0, o.Position.X, 1e-9)
	o.Update(0.5, models.Vector2D{X: 100, Y: 100})
	assert.InDelta(t, 100.0, o.Position.X, 1e-9)
	assert.InDelta(t, 150.0, o.Position.Y, 1e-9)
}

func TestMeleeLandsWhenTickSkipsImpactFrames(t *testing.T) {
	w := testWorld()
	sys := NewSystem(Config{}, w)
	p := newPlayer(500, 500)
	m := newMonster(t, "slime", 500, 540, p)

	require.True(t, p.BeginAttack())
	p.Update(0.4, entity.InputSnapshot{}, w)
	res := sys.ResolveMelee(p, []*entity.Monster{m})
	assert.Equal(t, 1, res.Hits)
	assert.Equal(t, 10.0, m.Health)
}

func TestStrikeAndTouchDamageStack(t *testing.T) {
	w := testWorld()
	sys := NewSystem(Config{TouchCooldown: 0.5}, w)
	p := newPlayer(520, 500)
	m := newMonster(t, "slime", 500, 500, p)

	m.Update(0.01, w)
	require.Equal(t, entity.StateAttacking, m.State)
	for i := 0; i < 3; i++ {
		m.Update(0.08, w)
	}

	// 判定帧攻击与接触伤害是两条独立通道
	res := sys.Resolve(0.01, p, []*entity.Monster{m}, nil, nil, nil)
	assert.Equal(t, 10.0, res.DamageTaken)
	assert.Equal(t, 90.0, p.Health)

	res = sys.Resolve(0.01, p, []*entity.Monster{m}, nil, nil, nil)
	assert.Equal(t, 0.0, res.DamageTaken, "接触冷却期间且攻击已结算")
}
