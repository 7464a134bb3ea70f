package game

import (
	"math"

	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

type cellKey struct {
	x, y int
}

// Grid 均匀网格空间划分，每帧重建，为分离与索敌提供邻近列表
type Grid struct {
	cellSize float64
	cells    map[cellKey][]*entity.Monster
}

// NewGrid 创建网格
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 64
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*entity.Monster),
	}
}

func (g *Grid) key(p models.Vector2D) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Clear 清空网格，保留已分配的格子
func (g *Grid) Clear() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

// Insert 加入怪物，坐标失效的忽略
func (g *Grid) Insert(m *entity.Monster) {
	if m == nil || !m.Position.IsFinite() {
		return
	}
	k := g.key(m.Position)
	g.cells[k] = append(g.cells[k], m)
}

// Rebuild 用存活怪物重建网格
func (g *Grid) Rebuild(monsters []*entity.Monster) {
	g.Clear()
	for _, m := range monsters {
		if m.State != entity.StateDead {
			g.Insert(m)
		}
	}
}

// Nearby 返回与 p 距离小于 radius 的怪物，exclude 不计入
func (g *Grid) Nearby(p models.Vector2D, radius float64, exclude *entity.Monster) []*entity.Monster {
	if !p.IsFinite() || radius <= 0 {
		return nil
	}
	var out []*entity.Monster
	lo := g.key(models.Vector2D{X: p.X - radius, Y: p.Y - radius})
	hi := g.key(models.Vector2D{X: p.X + radius, Y: p.Y + radius})
	r2 := radius * radius

	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for _, m := range g.cells[cellKey{x, y}] {
				if m == exclude {
					continue
				}
				if m.Position.DistSq(p) < r2 {
					out = append(out, m)
				}
			}
		}
	}
	return out
}

// Nearest 返回半径内最近的怪物
func (g *Grid) Nearest(p models.Vector2D, radius float64) *entity.Monster {
	var best *entity.Monster
	bestD := math.Inf(1)
	for _, m := range g.Nearby(p, radius, nil) {
		if m.State == entity.StateDead || m.IsRemovable() {
			continue
		}
		if d := m.Position.DistSq(p); d < bestD {
			best, bestD = m, d
		}
	}
	return best
}
