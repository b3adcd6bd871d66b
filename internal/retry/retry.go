package retry

import (
	"context"
	"errors"
	"time"

	"github.com/iWorld-y/insight_radar/internal/logger"
)

// ErrAttemptsExhausted 全部尝试失败后的哨兵错误。调用方对它的唯一
// 合理响应是走降级路径，底层错误不再向上传播。
var ErrAttemptsExhausted = errors.New("retry: all attempts exhausted")

// Notifier 接收重试结果的熔断器接口
type Notifier interface {
	RecordFailureExhausted()
	RecordSuccess()
}

const (
	// DefaultMaxAttempts 默认尝试次数
	DefaultMaxAttempts = 3
	// DefaultBaseDelay 默认基础退避时长
	DefaultBaseDelay = 2 * time.Second
)

// Executor 有界重试执行器，线性退避：第 k 次失败后等待 baseDelay*k
// 再进行第 k+1 次（3 次策略下为 2s、4s）。
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

// NewExecutor 创建执行器，非法参数回落到默认值
func NewExecutor(maxAttempts int, baseDelay time.Duration) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Executor{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       time.Sleep,
	}
}

// Execute 执行 op，最多 maxAttempts 次。任意一次成功立即向熔断器上报
// RecordSuccess 并返回结果；全部失败则上报 RecordFailureExhausted 并
// 返回 ErrAttemptsExhausted（不是底层错误）。每次失败都带尝试序号记日志。
func (e *Executor) Execute(ctx context.Context, notifier Notifier, op func(context.Context) (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			notifier.RecordSuccess()
			return result, nil
		}

		lastErr = err
		logger.Log.Warnf("第 %d/%d 次调用失败: %v", attempt, e.maxAttempts, err)

		if attempt < e.maxAttempts {
			e.sleep(e.baseDelay * time.Duration(attempt))
		}
	}

	logger.Log.Errorf("重试 %d 次后放弃，最后错误: %v", e.maxAttempts, lastErr)
	notifier.RecordFailureExhausted()
	return "", ErrAttemptsExhausted
}
