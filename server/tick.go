package server

import "time"

// StartTicker 启动会话的 Tick 循环（单协程推进世界）
// 首帧前先下发迷宫；Stop 后关闭出站连接
func (r *SessionRunner) StartTicker() {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go func() {
		defer close(r.finished)
		defer r.out.Close()

		r.SendMaze()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.done:
				return
			case <-ticker.C:
				r.Step()
			}
		}
	}()
}
