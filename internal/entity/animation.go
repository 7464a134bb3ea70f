// animation.go

package entity

import "math"

// Animation 动画片段的逻辑时间轴
// 内部驱动时按帧时长推进；外部驱动时由渲染端通过 Advance/Complete 汇报进度
type Animation struct {
	Name          string
	Frames        int
	FrameDuration float64
	Loop          bool
	External      bool

	frame   int
	from    int // 最近一次推进前的帧号
	elapsed float64
	done    bool
	stalled int
}

// Play 切换到新片段，同名循环片段不重置。新片段默认内部驱动
func (a *Animation) Play(name string, frames int, frameDuration float64, loop bool) {
	if a.Name == name && a.Loop && loop {
		return
	}
	a.External = false
	a.Name = name
	a.Frames = frames
	a.FrameDuration = frameDuration
	a.Loop = loop
	a.frame = 0
	a.from = 0
	a.elapsed = 0
	a.done = false
	a.stalled = 0
}

// Step 推进一帧模拟时间，返回帧号是否变化
func (a *Animation) Step(dt float64) bool {
	a.from = a.frame
	if a.done {
		return false
	}
	before := a.frame

	if !a.External && a.FrameDuration > 0 && !math.IsNaN(a.FrameDuration) && a.Frames > 0 {
		a.elapsed += dt
		for a.elapsed >= a.FrameDuration && !a.done {
			a.elapsed -= a.FrameDuration
			a.frame++
			if a.frame >= a.Frames {
				if a.Loop {
					a.frame = 0
				} else {
					a.frame = a.Frames - 1
					a.done = true
				}
			}
		}
	}

	advanced := a.frame != before || a.done
	if advanced || a.Loop {
		a.stalled = 0
	} else {
		a.stalled++
	}
	return advanced
}

// Advance 外部汇报当前帧
func (a *Animation) Advance(frame int) {
	if a.done || frame < 0 {
		return
	}
	if frame != a.frame {
		a.stalled = 0
	}
	if a.Frames > 0 && frame >= a.Frames {
		frame = a.Frames - 1
	}
	a.from = a.frame
	a.frame = frame
}

// Complete 外部汇报片段播放完毕
func (a *Animation) Complete() {
	a.from = a.frame
	if a.Frames > 0 {
		a.frame = a.Frames - 1
	}
	a.done = true
	a.stalled = 0
}

// Frame 当前帧号
func (a *Animation) Frame() int {
	return a.frame
}

// Crossed 最近一次推进是否经过了 frame，区间为 (推进前, 当前]
// 单帧时长小于 dt 时中间帧不会停留，用它判断判定帧
func (a *Animation) Crossed(frame int) bool {
	return frame > a.from && frame <= a.frame
}

// Done 一次性片段是否播放完毕
func (a *Animation) Done() bool {
	return a.done
}

// Stalled 一次性片段停滞是否超过 limit 帧，limit<=0 时关闭看门狗
func (a *Animation) Stalled(limit int) bool {
	return limit > 0 && !a.Loop && !a.done && a.stalled > limit
}
