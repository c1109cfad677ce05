package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Mode 扫描会话模式（同一时刻只有一个生效）
type Mode string

const (
	ModeIdle      Mode = "idle"      // 无扫描源，后端返回哨兵快照
	ModeNormal    Mode = "normal"    // 普通扫描
	ModeEmergency Mode = "emergency" // 紧急扫描
)

// Control 会话控制（对应界面上的一个按钮）
type Control string

const (
	ControlNormalScan    Control = "normal-scan"
	ControlEmergencyScan Control = "emergency-scan"
	ControlStop          Control = "stop"
	ControlRetrain       Control = "retrain"
)

var (
	// ErrRequestPending 同一控制已有请求在途
	ErrRequestPending = errors.New("request already pending for this control")
	// ErrInvalidTransition 当前模式下不允许该控制
	ErrInvalidTransition = errors.New("transition not allowed in current mode")
)

// Machine 扫描会话状态机
// 两步协议：Begin 锁定控制并校验转换 → 后端确认后 Commit 更新本地模式 → End 释放控制
// 后端失败时只 End 不 Commit，状态保持不变
type Machine struct {
	mu      sync.Mutex
	mode    Mode
	pending map[Control]bool
	logger  *zap.Logger
}

// NewMachine 创建状态机（初始模式 Idle）
func NewMachine(logger *zap.Logger) *Machine {
	return &Machine{
		mode:    ModeIdle,
		pending: make(map[Control]bool),
		logger:  logger,
	}
}

// Mode 当前模式
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Begin 校验并锁定一次控制请求
// 同一控制已有请求在途时返回 ErrRequestPending（防止并发重复的会话变更）
func (m *Machine) Begin(c Control) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending[c] {
		return ErrRequestPending
	}

	switch c {
	case ControlNormalScan, ControlEmergencyScan:
		if m.mode != ModeIdle {
			return ErrInvalidTransition
		}
	case ControlStop:
		if m.mode == ModeIdle {
			return ErrInvalidTransition
		}
	case ControlRetrain:
		// 任意模式下都允许重训
	}

	m.pending[c] = true
	return nil
}

// Commit 后端确认后更新本地模式
func (m *Machine) Commit(c Control) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.mode
	switch c {
	case ControlNormalScan:
		m.mode = ModeNormal
	case ControlEmergencyScan:
		m.mode = ModeEmergency
	case ControlStop:
		m.mode = ModeIdle
	case ControlRetrain:
		// 重训不改变会话模式
		return
	}

	m.logger.Info("Session mode changed",
		zap.String("from", string(prev)),
		zap.String("to", string(m.mode)),
		zap.String("control", string(c)),
	)
}

// End 释放控制（成功或失败都必须调用，避免界面永久禁用）
func (m *Machine) End(c Control) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, c)
}

// Pending 控制是否有请求在途
func (m *Machine) Pending(c Control) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[c]
}

// ScanControlsVisible 扫描选择控制是否可见（仅 Idle 时显示）
func (m *Machine) ScanControlsVisible() bool {
	return m.Mode() == ModeIdle
}
