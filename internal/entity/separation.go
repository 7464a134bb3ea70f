package entity

import "github.com/jacl-coder/PixelStorm-Survival/internal/models"

// Separation 怪物间分离参数
type Separation struct {
	Radius   float64
	Strength float64 // 每参考帧推开距离
}

// Separate 根据邻近怪物列表计算排斥位移，邻近列表由调用方的空间划分提供
// 怪物群成员、死亡与冲刺中的怪物不参与
func (m *Monster) Separate(nearby []*Monster, sep Separation, dt float64, w *World) {
	if m.Pack != "" || m.State == StateDead || m.dashTimer > 0 || sep.Radius <= 0 {
		return
	}
	r2 := sep.Radius * sep.Radius
	var push models.Vector2D
	for _, o := range nearby {
		if o == nil || o == m || o.Pack != "" || o.State == StateDead {
			continue
		}
		d := m.Position.Sub(o.Position)
		dsq := d.LenSq()
		if dsq == 0 || dsq >= r2 {
			continue
		}
		push = push.Add(d.Normalize())
	}
	push = push.Normalize()
	if push.LenSq() == 0 {
		return
	}
	m.Position = w.clamp(m.Position.Add(push.Scale(sep.Strength * dt * ReferenceFPS)))
}
