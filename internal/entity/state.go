// state.go

package entity

// LifeState 实体逻辑状态，渲染端据此选择动画
type LifeState int

const (
	// StateIdle 站立
	StateIdle LifeState = iota
	// StateMoving 移动(玩家为行走)
	StateMoving
	// StateAttacking 攻击中
	StateAttacking
	// StateHurt 受击硬直
	StateHurt
	// StateDead 死亡，终止状态
	StateDead
)

func (s LifeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateAttacking:
		return "attacking"
	case StateHurt:
		return "hurt"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Behavior 怪物行为状态
type Behavior int

const (
	// BehaviorIdle 待机
	BehaviorIdle Behavior = iota
	// BehaviorRoaming 随机游荡
	BehaviorRoaming
	// BehaviorChasing 追击目标
	BehaviorChasing
	// BehaviorAttacking 攻击
	BehaviorAttacking
	// BehaviorFleeing 逃离目标
	BehaviorFleeing
)

func (b Behavior) String() string {
	switch b {
	case BehaviorIdle:
		return "idle"
	case BehaviorRoaming:
		return "roaming"
	case BehaviorChasing:
		return "chasing"
	case BehaviorAttacking:
		return "attacking"
	case BehaviorFleeing:
		return "fleeing"
	default:
		return "unknown"
	}
}

// lifeStateFor 行为状态对应的逻辑状态
func lifeStateFor(b Behavior) LifeState {
	switch b {
	case BehaviorRoaming, BehaviorChasing, BehaviorFleeing:
		return StateMoving
	case BehaviorAttacking:
		return StateAttacking
	default:
		return StateIdle
	}
}

// 渲染子状态提示，核心只给出逻辑提示，不命名具体素材
const (
	HintIdle   = "idle"
	HintRun    = "run"
	HintAttack = "atk"
	HintHurt   = "hurt"
	HintDeath  = "death"
	HintDash   = "dash"
	HintWindup = "windup"
	HintShoot  = "shoot"
)
