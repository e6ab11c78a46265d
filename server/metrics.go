package server

import (
	"sync/atomic"
)

// RunnerMetrics 记录会话运行期的关键指标（用于监控与调试）
type RunnerMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	InputsAccepted    int64 // 被接受的输入数
	OldSeqIgnored     int64 // 因旧序列被忽略的输入数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	EncodeFailures    int64 // 出站消息编码失败次数
	Escapes           int64 // 玩家逃出迷宫次数
	Resets            int64 // 重新开局次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *RunnerMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RunnerMetrics) IncOldSeqIgnored()     { atomic.AddInt64(&m.OldSeqIgnored, 1) }
func (m *RunnerMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RunnerMetrics) IncEncodeFailures()    { atomic.AddInt64(&m.EncodeFailures, 1) }
func (m *RunnerMetrics) IncEscapes()           { atomic.AddInt64(&m.Escapes, 1) }
func (m *RunnerMetrics) IncResets()            { atomic.AddInt64(&m.Resets, 1) }
func (m *RunnerMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RunnerMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"old_seq_ignored":     atomic.LoadInt64(&m.OldSeqIgnored),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"encode_failures":     atomic.LoadInt64(&m.EncodeFailures),
		"escapes":             atomic.LoadInt64(&m.Escapes),
		"resets":              atomic.LoadInt64(&m.Resets),
		"avg_tick_ms":         avgMs,
	}
}
