package entity

import "github.com/jacl-coder/PixelStorm-Survival/internal/models"

// Hooks 实体向外部发出的通知，每个死亡钩子对同一实体只触发一次
type Hooks interface {
	MonsterDied(m *Monster)
	PlayerDied(p *Player)
	FireShot(m *Monster, origin, dir models.Vector2D)
	AnimationRecovered(id, clip string)
}

// NopHooks 空实现
type NopHooks struct{}

func (NopHooks) MonsterDied(*Monster) {}
func (NopHooks) PlayerDied(*Player) {}
func (NopHooks) FireShot(*Monster, models.Vector2D, models.Vector2D) {}
func (NopHooks) AnimationRecovered(string, string) {}
