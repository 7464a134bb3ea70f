// entity.go

package models

import (
	"math"
)

// Vector2D 二维向量
type Vector2D struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Add 向量相加
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量相减
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 向量缩放
func (v Vector2D) Scale(s float64) Vector2D {
	return Vector2D{X: v.X * s, Y: v.Y * s}
}

// LenSq 长度平方
func (v Vector2D) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len 长度
func (v Vector2D) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize 归一化，零向量返回零向量
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vector2D{}
	}
	return Vector2D{X: v.X / l, Y: v.Y / l}
}

// DistSq 两点距离平方
func (v Vector2D) DistSq(o Vector2D) float64 {
	return v.Sub(o).LenSq()
}

// Dist 两点距离
func (v Vector2D) Dist(o Vector2D) float64 {
	return math.Sqrt(v.DistSq(o))
}

// IsFinite 坐标是否有效(非NaN/Inf)
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// FromAngle 由弧度角构造单位向量
func FromAngle(rad float64) Vector2D {
	return Vector2D{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Direction 朝向(四个基本方向)
type Direction int

const (
	// DirNone 无方向(输入空闲)
	DirNone Direction = iota
	// DirUp 向上
	DirUp
	// DirDown 向下
	DirDown
	// DirLeft 向左
	DirLeft
	// DirRight 向右
	DirRight
)

// String 方向名称
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Vector 方向单位向量，屏幕坐标系y轴向下
func (d Direction) Vector() Vector2D {
	switch d {
	case DirUp:
		return Vector2D{X: 0, Y: -1}
	case DirDown:
		return Vector2D{X: 0, Y: 1}
	case DirLeft:
		return Vector2D{X: -1, Y: 0}
	case DirRight:
		return Vector2D{X: 1, Y: 0}
	default:
		return Vector2D{}
	}
}

// ParseDirection 解析方向字符串，无法识别时返回DirNone
func ParseDirection(s string) Direction {
	switch s {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirNone
	}
}

// DirectionOf 取向量的主轴方向
func DirectionOf(v Vector2D) Direction {
	if v.X == 0 && v.Y == 0 {
		return DirNone
	}
	if math.Abs(v.X) >= math.Abs(v.Y) {
		if v.X < 0 {
			return DirLeft
		}
		return DirRight
	}
	if v.Y < 0 {
		return DirUp
	}
	return DirDown
}

// EntityType 实体类型
type EntityType string

const (
	// EntityPlayer 玩家实体
	EntityPlayer EntityType = "player"
	// EntityMonster 怪物实体
	EntityMonster EntityType = "monster"
	// EntityProjectile 玩家投射物
	EntityProjectile EntityType = "projectile"
	// EntityOrbital 环绕武器
	EntityOrbital EntityType = "orbital"
	// EntityEnemyShot 怪物投射物
	EntityEnemyShot EntityType = "enemy_shot"
)

// Bounds 世界边界，原点在左上角
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp 将坐标限制在边界内
func (b Bounds) Clamp(p Vector2D) Vector2D {
	return Vector2D{
		X: math.Max(0, math.Min(b.Width, p.X)),
		Y: math.Max(0, math.Min(b.Height, p.Y)),
	}
}

// Contains 坐标是否在边界内(含margin扩展)
func (b Bounds) Contains(p Vector2D, margin float64) bool {
	return p.X >= -margin && p.Y >= -margin && p.X <= b.Width+margin && p.Y <= b.Height+margin
}
