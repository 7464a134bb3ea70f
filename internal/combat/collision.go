// collision.go

package combat

import (
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// Circle 碰撞圆
type Circle struct {
	Center models.Vector2D
	Radius float64
}

// Valid 圆心坐标与半径是否有效
func (c Circle) Valid() bool {
	return c.Center.IsFinite() && c.Radius >= 0
}

// Collide 两圆相交判定：圆心距离平方 < (r1+r2)²
func Collide(a, b Circle) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	r := a.Radius + b.Radius
	return a.Center.DistSq(b.Center) < r*r
}

// CollisionRadius 怪物碰撞半径
func CollisionRadius(m *entity.Monster) float64 {
	return m.CollisionRadius()
}

// BodyCircle 实体的碰撞圆
func BodyCircle(b *entity.Body) Circle {
	return Circle{Center: b.Position, Radius: b.CollisionRadius()}
}
