package combat

// cooldownEpsilon 浮点累减误差容限，保证按整数倍帧长触发
const cooldownEpsilon = 1e-9

// CooldownTracker 按键记录剩余冷却时间(秒)
type CooldownTracker struct {
	Duration  float64
	remaining map[string]float64
}

// NewCooldownTracker 创建冷却表
func NewCooldownTracker(duration float64) *CooldownTracker {
	return &CooldownTracker{
		Duration:  duration,
		remaining: make(map[string]float64),
	}
}

// Tick 所有冷却减少 dt，到期的条目被移除
func (c *CooldownTracker) Tick(dt float64) {
	for key, left := range c.remaining {
		left -= dt
		if left <= cooldownEpsilon {
			delete(c.remaining, key)
			continue
		}
		c.remaining[key] = left
	}
}

// Ready 是否可以再次触发
func (c *CooldownTracker) Ready(key string) bool {
	_, cooling := c.remaining[key]
	return !cooling
}

// Trigger 触发并重置冷却
func (c *CooldownTracker) Trigger(key string) {
	c.remaining[key] = c.Duration
}

// Remaining 剩余冷却
func (c *CooldownTracker) Remaining(key string) float64 {
	return c.remaining[key]
}

// Forget 移除单个条目
func (c *CooldownTracker) Forget(key string) {
	delete(c.remaining, key)
}

// Purge 移除 keep 返回 false 的条目
func (c *CooldownTracker) Purge(keep func(key string) bool) {
	for key := range c.remaining {
		if !keep(key) {
			delete(c.remaining, key)
		}
	}
}

// Len 正在冷却的条目数
func (c *CooldownTracker) Len() int {
	return len(c.remaining)
}

// Reset 清空
func (c *CooldownTracker) Reset() {
	c.remaining = make(map[string]float64)
}
