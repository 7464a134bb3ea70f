package progression

import (
	"math/rand"
	"testing"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(11))
}

func newTestManager(cat *catalog.Catalog) (*Manager, *entity.Player, *event.Queue) {
	p := entity.NewPlayer(cat.Player, models.Vector2D{X: 500, Y: 500})
	q := &event.Queue{}
	m := NewManager(cat, p, testRNG(), q)
	q.Drain()
	return m, p, q
}

func countKind(events []event.Event, kind event.Kind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestStartingWeapon(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())

	assert.Equal(t, 1, m.Level("magic_bolt"))
	assert.Equal(t, 1, p.Owned["magic_bolt"])
	require.Len(t, p.Weapons, 1)
	bolt := p.Weapons[0]
	assert.Equal(t, catalog.BehaviorProjectile, bolt.Behavior)
	assert.Equal(t, 10.0, bolt.Damage)
	assert.Equal(t, 1.2, bolt.Cooldown)
	assert.Equal(t, 300.0, bolt.Speed)
	assert.Equal(t, 1, bolt.Count)
	assert.Equal(t, 0, bolt.Pierce)
	assert.False(t, m.HasDraft())
}

func TestXPRoundTrip(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())

	total := 0.0
	for l := 1; l <= 9; l++ {
		total += catalog.XPNeeded(l)
	}
	assert.Equal(t, 9, m.AddXP(total))
	assert.Equal(t, 10, p.Level)
	assert.Equal(t, 0.0, p.XP)

	assert.Equal(t, 0, m.AddXP(catalog.XPNeeded(10)-1))
	assert.Equal(t, 10, p.Level)
	assert.Equal(t, 1, m.AddXP(1))
	assert.Equal(t, 11, p.Level)
	assert.Equal(t, 0.0, p.XP)
}

func TestAddXPLevelScaling(t *testing.T) {
	cat := catalog.Default()
	m, p, q := newTestManager(cat)
	p.Health = 50

	assert.Equal(t, 1, m.AddXP(9))
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 0.0, p.XP)
	assert.Equal(t, 108.0, p.MaxHealth)
	assert.Equal(t, 60.0, p.Health)
	assert.InDelta(t, 21.0, p.BaseDamage, 1e-9)

	// 14 + 20 + 1
	assert.Equal(t, 2, m.AddXP(35))
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, 1.0, p.XP)
	assert.Equal(t, 3, m.PendingDrafts())

	events := q.Drain()
	assert.Equal(t, 3, countKind(events, event.LevelUp))
	assert.Equal(t, 4, events[len(events)-1].Level)

	assert.Equal(t, 0, m.AddXP(-5))
	assert.Equal(t, 0, m.AddXP(0))
}

func TestAddXPIgnoredWhenDead(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())
	p.TakeDamage(1000, nil)
	require.True(t, p.IsDead())

	assert.Equal(t, 0, m.AddXP(100))
	assert.Equal(t, 1, p.Level)
	assert.Nil(t, m.UpdateWeapons(1))
	assert.Nil(t, m.UpdatePowers(1))
}

func TestUpgradeLevelCeiling(t *testing.T) {
	m, p, q := newTestManager(catalog.Default())

	for i := 0; i < 5+5; i++ {
		require.NoError(t, m.Acquire("magic_bolt"))
	}
	assert.Equal(t, 5, m.Level("magic_bolt"))
	assert.Equal(t, 5, p.Owned["magic_bolt"])
	require.Len(t, p.Weapons, 1)
	assert.Equal(t, 25.0, p.Weapons[0].Damage)
	assert.Equal(t, 3, p.Weapons[0].Count)
	assert.Equal(t, 4, countKind(q.Drain(), event.UpgradeApplied))

	for i := 0; i < 12+5; i++ {
		require.NoError(t, m.Acquire("might"))
	}
	assert.Equal(t, 12, m.Level("might"))
	assert.InDelta(t, 1.96, p.Stats.DamageMult, 1e-9)
	assert.InDelta(t, 49.0, p.Weapons[0].Damage, 1e-9)
}

func TestPassiveEffects(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())

	require.NoError(t, m.Acquire("multishot"))
	assert.Equal(t, 1, p.Stats.ProjectileCount)
	assert.Equal(t, 2, p.Weapons[0].Count)

	require.NoError(t, m.Acquire("might"))
	assert.InDelta(t, 10.8, p.Weapons[0].Damage, 1e-9)

	require.NoError(t, m.Acquire("haste"))
	assert.InDelta(t, 1.152, p.Weapons[0].Cooldown, 1e-9)

	require.NoError(t, m.Acquire("bolt_focus"))
	assert.Equal(t, 1, p.WeaponStats["magic_bolt"].ExtraPierce)
	assert.Equal(t, 1, p.Weapons[0].Pierce)

	require.NoError(t, m.Acquire("velocity"))
	assert.InDelta(t, 330.0, p.Weapons[0].Speed, 1e-9)

	require.NoError(t, m.Acquire("vitality"))
	assert.Equal(t, 110.0, p.MaxHealth)
	assert.Equal(t, 110.0, p.Health)

	require.NoError(t, m.Acquire("armor"))
	assert.Equal(t, 1.0, p.Stats.Armor)

	require.NoError(t, m.Acquire("regeneration"))
	require.Len(t, p.Powers, 1)
	assert.Equal(t, catalog.PowerHeal, p.Powers[0].Effect)
	assert.Equal(t, 2.0, p.Powers[0].Amount)
	assert.InDelta(t, 4.8, p.Powers[0].Interval, 1e-9)
}

func TestWeaponSpecificPassive(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())

	assert.ErrorIs(t, m.Acquire("knife_mastery"), ErrNotEligible)
	assert.Equal(t, 0, m.Level("knife_mastery"))

	require.NoError(t, m.Acquire("multishot"))
	require.NoError(t, m.Acquire("knives"))
	require.NoError(t, m.Acquire("orbit_blades"))
	require.NoError(t, m.Acquire("knife_mastery"))

	byID := map[string]entity.WeaponSlot{}
	for _, w := range p.Weapons {
		byID[w.ID] = w
	}
	assert.Equal(t, 4, byID["knives"].Count)
	assert.Equal(t, 3, byID["orbit_blades"].Count)
	assert.Equal(t, 3.0, byID["orbit_blades"].Speed)
	assert.Equal(t, 2, byID["magic_bolt"].Count)
}

func TestAcquireErrors(t *testing.T) {
	cat := catalog.Default()
	cat.Draft.MaxWeapons = 1
	m, _, _ := newTestManager(cat)

	assert.ErrorIs(t, m.Acquire("nope"), catalog.ErrUnknownUpgrade)
	assert.ErrorIs(t, m.Acquire("knives"), ErrNotEligible)
	assert.Equal(t, 0, m.Level("knives"))
}

func TestEarlyDraftCoversCategories(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		cat := catalog.Default()
		p := entity.NewPlayer(cat.Player, models.Vector2D{})
		m := NewManager(cat, p, rand.New(rand.NewSource(seed)), nil)
		p.Level = 2

		cards := m.GenerateLevelUpCards()
		require.Len(t, cards, DraftSize)
		cats := map[catalog.Category]int{}
		for _, c := range cards {
			cats[c.Category]++
			assert.NotEqual(t, "knife_mastery", c.ID)
			if c.Category != catalog.CategoryPassive {
				assert.True(t, c.New, c.ID)
			}
		}
		assert.Equal(t, 1, cats[catalog.CategoryWeapon])
		assert.Equal(t, 1, cats[catalog.CategoryPower])
		assert.Equal(t, 1, cats[catalog.CategoryPassive])
	}
}

func TestLateDraftUnique(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())
	p.Level = 10
	for i := 0; i < 50; i++ {
		cards := m.GenerateLevelUpCards()
		require.Len(t, cards, DraftSize)
		seen := map[string]bool{}
		for _, c := range cards {
			assert.False(t, seen[c.ID], "重复候选 %s", c.ID)
			seen[c.ID] = true
			if c.ID == "magic_bolt" {
				assert.False(t, c.New)
				assert.Equal(t, 2, c.Level)
			}
		}
	}
}

func TestDraftExhaustion(t *testing.T) {
	cat := catalog.Default()
	bolt, might := cat.Upgrades["magic_bolt"], cat.Upgrades["might"]
	cat.Upgrades = map[string]*catalog.UpgradeDef{"magic_bolt": bolt, "might": might}
	cat.UpgradeOrder = []string{"magic_bolt", "might"}
	m, p, _ := newTestManager(cat)

	for _, level := range []int{2, 10} {
		p.Level = level
		for i := 0; i < 20; i++ {
			cards := m.GenerateLevelUpCards()
			require.Len(t, cards, 2)
			assert.NotEqual(t, cards[0].ID, cards[1].ID)
		}
	}

	for i := 0; i < 20; i++ {
		require.NoError(t, m.Acquire("magic_bolt"))
		require.NoError(t, m.Acquire("might"))
	}
	assert.Empty(t, m.GenerateLevelUpCards())

	assert.Equal(t, 1, m.AddXP(catalog.XPNeeded(p.Level)))
	assert.False(t, m.HasDraft())
	assert.Equal(t, 0, m.PendingDrafts())
}

func TestChoose(t *testing.T) {
	m, _, q := newTestManager(catalog.Default())

	assert.ErrorIs(t, m.Choose("magic_bolt"), ErrNoPendingDraft)

	m.AddXP(9 + 14)
	require.True(t, m.HasDraft())
	assert.Equal(t, 2, m.PendingDrafts())

	assert.ErrorIs(t, m.Choose("bogus"), ErrNotOffered)

	first := m.Draft()[0]
	require.NoError(t, m.Choose(first.ID))
	assert.Equal(t, first.Level, m.Level(first.ID))
	assert.Equal(t, 1, m.PendingDrafts())
	require.True(t, m.HasDraft())

	require.NoError(t, m.Choose(m.Draft()[0].ID))
	assert.False(t, m.HasDraft())
	assert.ErrorIs(t, m.Choose(first.ID), ErrNoPendingDraft)

	assert.Equal(t, 2, countKind(q.Drain(), event.UpgradeApplied))
}

func TestWeightedPick(t *testing.T) {
	rng := testRNG()
	assert.Equal(t, -1, WeightedPick(rng, nil))
	assert.Equal(t, 2, WeightedPick(rng, []float64{0, 0, 0}))

	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, WeightedPick(rng, []float64{0, 1, 0}))
	}

	hits := 0
	for i := 0; i < 10000; i++ {
		if WeightedPick(rng, []float64{1, 3}) == 1 {
			hits++
		}
	}
	assert.InDelta(t, 0.75, float64(hits)/10000, 0.03)
}

func TestUpdateWeaponsCadence(t *testing.T) {
	m, _, _ := newTestManager(catalog.Default())

	fired := m.UpdateWeapons(0.1)
	require.Len(t, fired, 1)
	assert.Equal(t, "magic_bolt", fired[0].ID)
	assert.Empty(t, m.UpdateWeapons(1.0))
	assert.Len(t, m.UpdateWeapons(0.2), 1)
}

func TestUpdatePowersCadence(t *testing.T) {
	m, _, _ := newTestManager(catalog.Default())
	assert.Empty(t, m.UpdatePowers(1))

	require.NoError(t, m.Acquire("regeneration"))
	fired := m.UpdatePowers(0.5)
	require.Len(t, fired, 1)
	assert.Equal(t, catalog.PowerHeal, fired[0].Effect)
	assert.Empty(t, m.UpdatePowers(4))
	assert.Len(t, m.UpdatePowers(1), 1)
}

func TestReset(t *testing.T) {
	m, p, _ := newTestManager(catalog.Default())
	require.NoError(t, m.Acquire("knives"))
	require.NoError(t, m.Acquire("might"))
	m.AddXP(9)

	p.Reset(models.Vector2D{})
	m.Reset()

	owned := m.Owned()
	require.Len(t, owned, 1)
	assert.Equal(t, "magic_bolt", owned[0].ID())
	assert.Equal(t, 1, owned[0].Level)
	assert.Len(t, p.Weapons, 1)
	assert.Equal(t, 1.0, p.Stats.DamageMult)
	assert.False(t, m.HasDraft())
	assert.Equal(t, 0, m.PendingDrafts())
}
