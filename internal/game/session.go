// session.go

package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jacl-coder/PixelStorm-Survival/internal/entity"
	"github.com/jacl-coder/PixelStorm-Survival/internal/event"
	"github.com/jacl-coder/PixelStorm-Survival/internal/models"
	"github.com/jacl-coder/PixelStorm-Survival/internal/protocol"
)

// RunRecorder 对局结果的持久化目标(排行榜、历史记录)
type RunRecorder interface {
	RecordRun(ctx context.Context, rec *models.RunRecord) error
}

// SessionConfig 会话运行参数
type SessionConfig struct {
	TickInterval  time.Duration
	SnapshotEvery int
	IdleTimeout   time.Duration
}

const (
	commandBuffer = 64
	outboxBuffer  = 256
	recordTimeout = 5 * time.Second
)

// commandKind 会话命令类型
type commandKind int

const (
	cmdStart commandKind = iota
	cmdInput
	cmdChoose
	cmdPause
	cmdResume
	cmdAnimation
)

type command struct {
	kind     commandKind
	input    entity.InputSnapshot
	upgrade  string
	entityID string
	frame    int
	complete bool
}

// Session 单人游戏会话，拥有一局模拟与它的tick循环
type Session struct {
	ID         string
	PlayerName string
	CreatedAt  time.Time

	cfg       SessionConfig
	sim       *Simulation
	recorders []RunRecorder

	// 以下字段只在循环协程内访问
	input     entity.InputSnapshot
	ticks     uint64
	draftSent bool

	// 对外可见状态
	mu           sync.RWMutex
	status       models.SessionStatus
	startedAt    time.Time
	endedAt      time.Time
	lastActivity time.Time
	wave         int
	level        int
	lastRecord   *models.RunRecord

	commands chan command
	outbox   chan protocol.Envelope
	shutdown chan struct{}
	stopOnce sync.Once
}

// NewSession 创建会话，模拟由调用方构造
func NewSession(player string, sim *Simulation, cfg SessionConfig, recorders ...RunRecorder) *Session {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second / 60
	}
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = 1
	}
	var recs []RunRecorder
	for _, r := range recorders {
		if r != nil {
			recs = append(recs, r)
		}
	}
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		PlayerName:   player,
		CreatedAt:    now,
		cfg:          cfg,
		sim:          sim,
		recorders:    recs,
		status:       models.SessionWaiting,
		lastActivity: now,
		commands:     make(chan command, commandBuffer),
		outbox:       make(chan protocol.Envelope, outboxBuffer),
		shutdown:     make(chan struct{}),
	}
}

// Run 启动tick循环
func (s *Session) Run() {
	log.Printf("会话 %s 启动，玩家 %s", s.ID, s.PlayerName)
	go s.loop()
}

// Stop 停止会话，可重复调用
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdown)
		s.mu.Lock()
		if s.status != models.SessionEnded {
			s.status = models.SessionEnded
			s.endedAt = time.Now()
		}
		s.mu.Unlock()
		log.Printf("会话 %s 已停止", s.ID)
	})
}

// Done 会话停止后关闭
func (s *Session) Done() <-chan struct{} {
	return s.shutdown
}

// Outbox 待发送给客户端的消息
func (s *Session) Outbox() <-chan protocol.Envelope {
	return s.outbox
}

// loop 会话主循环，命令在tick之间执行
func (s *Session) loop() {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	dt := s.cfg.TickInterval.Seconds()
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		case <-ticker.C:
			if s.Status() == models.SessionPlaying {
				s.step(dt)
			}
		case <-s.shutdown:
			return
		}
	}
}

// submit 把命令交给循环协程
func (s *Session) submit(cmd command) error {
	s.touch()
	select {
	case <-s.shutdown:
		return ErrSessionClosed
	default:
	}
	select {
	case s.commands <- cmd:
		return nil
	case <-s.shutdown:
		return ErrSessionClosed
	default:
		return fmt.Errorf("会话 %s 命令队列已满", s.ID)
	}
}

// Start 开始(或重新开始)一局
func (s *Session) Start() error {
	return s.submit(command{kind: cmdStart})
}

// SetInput 更新输入，保持到下一次输入为止
func (s *Session) SetInput(in entity.InputSnapshot) error {
	return s.submit(command{kind: cmdInput, input: in})
}

// Choose 选择升级
func (s *Session) Choose(id string) error {
	return s.submit(command{kind: cmdChoose, upgrade: id})
}

// Pause 暂停
func (s *Session) Pause() error {
	return s.submit(command{kind: cmdPause})
}

// Resume 继续
func (s *Session) Resume() error {
	return s.submit(command{kind: cmdResume})
}

// ReportAnimation 渲染端汇报动画进度
func (s *Session) ReportAnimation(id string, frame int, complete bool) error {
	return s.submit(command{kind: cmdAnimation, entityID: id, frame: frame, complete: complete})
}

// apply 执行命令，只在循环协程内调用
func (s *Session) apply(cmd command) {
	switch cmd.kind {
	case cmdStart:
		status := s.Status()
		if status == models.SessionPlaying || status == models.SessionPaused {
			return
		}
		if status == models.SessionEnded || s.ticks > 0 {
			s.sim.Reset()
		}
		s.ticks = 0
		s.draftSent = false
		s.input = entity.InputSnapshot{}
		s.mu.Lock()
		s.status = models.SessionPlaying
		s.startedAt = time.Now()
		s.endedAt = time.Time{}
		s.mu.Unlock()
		log.Printf("会话 %s 开始新的一局", s.ID)
		s.sendFrame()

	case cmdInput:
		s.input = cmd.input

	case cmdChoose:
		if err := s.sim.ChooseUpgrade(cmd.upgrade); err != nil {
			s.send(protocol.MsgError, protocol.ErrorPayload{Message: err.Error()})
			return
		}
		s.draftSent = false
		s.flushEvents(s.sim.queue.Drain())
		s.syncDraft()
		s.sendFrame()

	case cmdPause:
		s.setStatusIf(models.SessionPlaying, models.SessionPaused)

	case cmdResume:
		s.setStatusIf(models.SessionPaused, models.SessionPlaying)

	case cmdAnimation:
		s.sim.AnimationReport(cmd.entityID, cmd.frame, cmd.complete)
	}
}

// step 推进一个tick并推送结果
func (s *Session) step(dt float64) {
	events := s.sim.Tick(dt, s.input)
	s.ticks++
	s.flushEvents(events)
	s.syncDraft()

	summary := s.sim.Summary()
	s.mu.Lock()
	s.wave = summary.Wave
	s.level = summary.Level
	s.mu.Unlock()

	if s.ticks%uint64(s.cfg.SnapshotEvery) == 0 {
		s.sendFrame()
	}
	if s.sim.Over() {
		s.finish(summary)
	}
}

func (s *Session) flushEvents(events []event.Event) {
	if len(events) == 0 {
		return
	}
	s.send(protocol.MsgEvents, protocol.EventsPayload{Events: events})
}

// syncDraft 有新的候选时推送一次
func (s *Session) syncDraft() {
	if !s.sim.progress.HasDraft() {
		s.draftSent = false
		return
	}
	if s.draftSent {
		return
	}
	cards := s.sim.Draft()
	payload := protocol.DraftPayload{
		Cards:   make([]protocol.DraftCard, 0, len(cards)),
		Pending: s.sim.progress.PendingDrafts(),
	}
	for _, c := range cards {
		payload.Cards = append(payload.Cards, protocol.DraftCard{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Category:    string(c.Category),
			Rarity:      string(c.Rarity),
			Level:       c.Level,
			New:         c.New,
		})
	}
	s.send(protocol.MsgDraft, payload)
	s.draftSent = true
}

// finish 结算并记录本局
func (s *Session) finish(summary RunSummary) {
	s.mu.Lock()
	s.status = models.SessionEnded
	s.endedAt = time.Now()
	startedAt := s.startedAt
	s.mu.Unlock()

	rec := models.NewRunRecord(s.PlayerName, summary.Wave, summary.Level, summary.Kills, summary.Survived, startedAt)
	rec.KillsByType = summary.ByType
	s.mu.Lock()
	s.lastRecord = rec
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	for _, r := range s.recorders {
		if err := r.RecordRun(ctx, rec); err != nil {
			log.Printf("会话 %s 保存对局记录失败: %v", s.ID, err)
		}
	}
	log.Printf("会话 %s 本局结束: 波次 %d 等级 %d 击杀 %d 得分 %d", s.ID, rec.Wave, rec.Level, rec.Kills, rec.Score)

	s.send(protocol.MsgRunEnd, protocol.RunEndPayload{
		RunID:    rec.ID,
		Wave:     rec.Wave,
		Level:    rec.Level,
		Kills:    rec.Kills,
		Survived: rec.Survived,
		Score:    rec.Score,
		ByType:   rec.KillsByType,
	})
}

func (s *Session) sendFrame() {
	s.send(protocol.MsgFrame, s.sim.Snapshot())
}

// send 非阻塞投递，客户端消费不及时会丢弃消息
func (s *Session) send(msgType string, payload interface{}) {
	env, err := protocol.NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}
	select {
	case s.outbox <- env:
	default:
		if msgType != protocol.MsgFrame {
			log.Printf("会话 %s 发送队列已满，丢弃消息 %s", s.ID, msgType)
		}
	}
}

func (s *Session) setStatusIf(from, to models.SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == from {
		s.status = to
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Status 当前状态
func (s *Session) Status() models.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// LastRecord 最近一局的结算记录
func (s *Session) LastRecord() *models.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRecord
}

// Info 会话概要
func (s *Session) Info() models.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SessionInfo{
		ID:         s.ID,
		PlayerName: s.PlayerName,
		Status:     s.status,
		CreatedAt:  s.CreatedAt,
		StartedAt:  s.startedAt,
		Wave:       s.wave,
		Level:      s.level,
	}
}

// ShouldCleanup 是否可以清理
func (s *Session) ShouldCleanup(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.IdleTimeout <= 0 {
		return false
	}
	if s.status == models.SessionEnded {
		return now.Sub(s.lastActivity) > s.cfg.IdleTimeout/2
	}
	return now.Sub(s.lastActivity) > s.cfg.IdleTimeout
}
