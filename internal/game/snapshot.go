package game

import (
	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
)

// Snapshot 生成当前帧快照，只包含逻辑状态与提示
func (s *Simulation) Snapshot() models.Snapshot {
	p := s.player
	snap := models.Snapshot{
		Tick:         s.tick,
		Elapsed:      s.elapsed,
		Wave:         s.scheduler.Wave(),
		Kills:        s.kills,
		PendingDraft: s.progress.HasDraft(),
		Player: models.PlayerView{
			EntityView: bodyView(&p.Body, models.EntityPlayer, ""),
			Level:      p.Level,
			XP:         p.XP,
			XPNeeded:   catalog.XPNeeded(p.Level),
			Armor:      p.Stats.Armor,
			Weapons:    make([]string, 0, len(p.Weapons)),
			Powers:     make([]string, 0, len(p.Powers)),
		},
		Monsters:    make([]models.EntityView, 0, len(s.monsters)),
		Projectiles: make([]models.EntityView, 0, len(s.projectiles)+len(s.orbitals)+len(s.shots)),
	}
	for _, w := range p.Weapons {
		snap.Player.Weapons = append(snap.Player.Weapons, w.ID)
	}
	for _, pw := range p.Powers {
		snap.Player.Powers = append(snap.Player.Powers, pw.ID)
	}

	for _, m := range s.monsters {
		v := bodyView(&m.Body, models.EntityMonster, m.Type)
		v.Hint = monsterHint(m)
		v.Boss = m.Boss
		snap.Monsters = append(snap.Monsters, v)
	}
	for _, pr := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, models.EntityView{
			ID:       pr.ID,
			Type:     models.EntityProjectile,
			Subtype:  pr.WeaponID,
			Position: pr.Position,
			Radius:   pr.Radius,
		})
	}
	for _, o := range s.orbitals {
		snap.Projectiles = append(snap.Projectiles, models.EntityView{
			ID:       o.ID,
			Type:     models.EntityOrbital,
			Subtype:  o.WeaponID,
			Position: o.Position,
			Radius:   o.Radius,
		})
	}
	for _, sh := range s.shots {
		snap.Projectiles = append(snap.Projectiles, models.EntityView{
			ID:       sh.ID,
			Type:     models.EntityEnemyShot,
			Position: sh.Position,
			Radius:   sh.Radius,
		})
	}
	return snap
}

func bodyView(b *entity.Body, t models.EntityType, subtype string) models.EntityView {
	return models.EntityView{
		ID:        b.ID,
		Type:      t,
		Subtype:   subtype,
		Position:  b.Position,
		Facing:    b.Facing.String(),
		State:     b.State.String(),
		Hint:      b.Hint(),
		Frame:     b.Anim.Frame(),
		Health:    b.Health,
		MaxHealth: b.MaxHealth,
		Radius:    b.CollisionRadius(),
		Scale:     b.ScaleX,
	}
}

// monsterHint 冲刺、蓄力优先于动画片段名
func monsterHint(m *entity.Monster) string {
	switch {
	case m.State == entity.StateDead:
		return entity.HintDeath
	case m.Dashing():
		return entity.HintDash
	case m.WindingUp():
		return entity.HintWindup
	}
	return m.Hint()
}
