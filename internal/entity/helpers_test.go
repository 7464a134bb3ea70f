package entity

import (
	"math/rand"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

type recordingHooks struct {
	monsterDeaths int
	playerDeaths  int
	shots         []models.Vector2D
	recovered     []string
}

func (h *recordingHooks) MonsterDied(*Monster) { h.monsterDeaths++ }
func (h *recordingHooks) PlayerDied(*Player) { h.playerDeaths++ }
func (h *recordingHooks) FireShot(_ *Monster, _ models.Vector2D, dir models.Vector2D) {
	h.shots = append(h.shots, dir)
}
func (h *recordingHooks) AnimationRecovered(_ string, clip string) {
	h.recovered = append(h.recovered, clip)
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func testWorld(h Hooks) *World {
	return &World{
		Bounds: models.Bounds{Width: 2000, Height: 2000},
		Rand:   testRNG(),
		Hooks:  h,
	}
}

func testPlayer(x, y float64) *Player {
	return NewPlayer(catalog.Default().Player, models.Vector2D{X: x, Y: y})
}

func testMonster(id string, x, y float64, target *Player) *Monster {
	c := catalog.Default()
	stats, err := c.Monster(id)
	if err != nil {
		panic(err)
	}
	return NewMonster(stats, c.Tunables(stats.Variant), models.Vector2D{X: x, Y: y}, target)
}
