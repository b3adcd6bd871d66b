package breaker

import (
	"sync"
	"time"
)

// Status 熔断器状态
type Status int

const (
	// StatusClosed 闭合：允许调用外部依赖
	StatusClosed Status = iota
	// StatusOpen 断开：冷却期内禁止调用，走降级路径
	StatusOpen
)

// DefaultCooldown 默认冷却时长
const DefaultCooldown = 5 * time.Minute

// Breaker 进程内熔断器。状态转移全部在调用时惰性求值，没有后台定时器：
// 断开后冷却期内无人调用时存储状态不会变回闭合，但下一次 AllowAttempt
// 会正确地把它当作可用。状态不持久化，进程重启即回到闭合。
type Breaker struct {
	mu            sync.Mutex
	status        Status
	resetDeadline time.Time
	cooldown      time.Duration
	now           func() time.Time
}

// New 创建熔断器，cooldown <= 0 时使用默认值
func New(cooldown time.Duration) *Breaker {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Breaker{
		status:   StatusClosed,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// AllowAttempt 是否允许尝试真实调用。断开且未到 resetDeadline 返回 false，
// 调用方必须走降级；断开且已到期视作半开：本次放行，状态保持不变，
// 直到调用结果通过 RecordSuccess / RecordFailureExhausted 反馈回来。
func (b *Breaker) AllowAttempt() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status == StatusOpen && b.now().Before(b.resetDeadline) {
		return false
	}
	return true
}

// RecordFailureExhausted 重试耗尽，断开熔断器并设置冷却截止时间
func (b *Breaker) RecordFailureExhausted() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.status = StatusOpen
	b.resetDeadline = b.now().Add(b.cooldown)
}

// RecordSuccess 单次成功即完全闭合，没有渐进恢复
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.status = StatusClosed
}

// State 返回当前状态快照，供指标和测试观察
func (b *Breaker) State() (Status, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status, b.resetDeadline
}
