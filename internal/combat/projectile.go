// projectile.go

package combat

import (
	"math"

	"github.com/google/uuid"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// Projectile 玩家武器发射的投射物
type Projectile struct {
	ID          string
	WeaponID    string
	Position    models.Vector2D
	Velocity    models.Vector2D // 每秒
	Radius      float64
	Damage      float64
	Pierce      int // 剩余穿透次数
	LifeTime    float64
	HitEntities []string
	Dead        bool
}

// NewProjectile 创建投射物
func NewProjectile(weaponID string, pos, dir models.Vector2D, speed, radius, damage float64, pierce int, lifetime float64) *Projectile {
	return &Projectile{
		ID:          uuid.New().String(),
		WeaponID:    weaponID,
		Position:    pos,
		Velocity:    dir.Normalize().Scale(speed),
		Radius:      radius,
		Damage:      damage,
		Pierce:      pierce,
		LifeTime:    lifetime,
		HitEntities: []string{},
	}
}

// Update 移动并扣减生命周期
func (p *Projectile) Update(dt float64) {
	if p.Dead {
		return
	}
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.LifeTime -= dt
	if p.LifeTime <= 0 {
		p.Dead = true
	}
}

// HasHit 是否已命中过该实体
func (p *Projectile) HasHit(id string) bool {
	for _, hitID := range p.HitEntities {
		if hitID == id {
			return true
		}
	}
	return false
}

// Hit 记录一次命中，返回投射物是否继续存在
// 剩余穿透大于0时扣减并保留，否则本次命中后销毁
func (p *Projectile) Hit(id string) bool {
	p.HitEntities = append(p.HitEntities, id)
	if p.Pierce > 0 {
		p.Pierce--
		return true
	}
	p.Dead = true
	return false
}

// Circle 碰撞圆
func (p *Projectile) Circle() Circle {
	return Circle{Center: p.Position, Radius: p.Radius}
}

// Orbital 环绕玩家旋转的武器，不因命中销毁，对同一怪物按冷却重复造成伤害
type Orbital struct {
	ID           string
	WeaponID     string
	Position     models.Vector2D
	Angle        float64
	AngularSpeed float64 // 弧度/秒
	OrbitRadius  float64
	Radius       float64
	Damage       float64
	LifeTime     float64
	Dead         bool
}

// NewOrbital 创建环绕物
func NewOrbital(weaponID string, center models.Vector2D, angle, angularSpeed, orbitRadius, radius, damage, lifetime float64) *Orbital {
	o := &Orbital{
		ID:           uuid.New().String(),
		WeaponID:     weaponID,
		Angle:        angle,
		AngularSpeed: angularSpeed,
		OrbitRadius:  orbitRadius,
		Radius:       radius,
		Damage:       damage,
		LifeTime:     lifetime,
	}
	o.place(center)
	return o
}

// Update 绕中心旋转
func (o *Orbital) Update(dt float64, center models.Vector2D) {
	if o.Dead {
		return
	}
	o.Angle = math.Mod(o.Angle+o.AngularSpeed*dt, 2*math.Pi)
	o.place(center)
	o.LifeTime -= dt
	if o.LifeTime <= 0 {
		o.Dead = true
	}
}

func (o *Orbital) place(center models.Vector2D) {
	o.Position = center.Add(models.FromAngle(o.Angle).Scale(o.OrbitRadius))
}

// Circle 碰撞圆
func (o *Orbital) Circle() Circle {
	return Circle{Center: o.Position, Radius: o.Radius}
}

// EnemyShot 远程怪物发射的投射物
type EnemyShot struct {
	ID       string
	OwnerID  string
	Position models.Vector2D
	Velocity models.Vector2D // 每秒
	Radius   float64
	Damage   float64
	LifeTime float64
	Dead     bool
}

// NewEnemyShot 创建怪物投射物
func NewEnemyShot(ownerID string, pos, dir models.Vector2D, speed, radius, damage, lifetime float64) *EnemyShot {
	return &EnemyShot{
		ID:       uuid.New().String(),
		OwnerID:  ownerID,
		Position: pos,
		Velocity: dir.Normalize().Scale(speed),
		Radius:   radius,
		Damage:   damage,
		LifeTime: lifetime,
	}
}

// Update 移动并扣减生命周期
func (s *EnemyShot) Update(dt float64) {
	if s.Dead {
		return
	}
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.LifeTime -= dt
	if s.LifeTime <= 0 {
		s.Dead = true
	}
}

// Circle 碰撞圆
func (s *EnemyShot) Circle() Circle {
	return Circle{Center: s.Position, Radius: s.Radius}
}

// RotateVector 旋转向量
func RotateVector(v models.Vector2D, angle float64) models.Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return models.Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}
