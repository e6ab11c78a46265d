package server

import (
	"sync"
	"time"

	"mazerunner/game"
	"mazerunner/maze"
)

// Sink 出站消息的接收端（WebSocket 连接或测试替身）
// 只由 Tick 协程调用，Close 之后不再 Enqueue
type Sink interface {
	Enqueue(b []byte)
	Close()
}

// SessionRunner 单人会话：权威状态维护在内存，单协程 Tick 推进
// 一个连接对应一个 Runner，Runner 之间互不影响
type SessionRunner struct {
	ID string

	cfg     game.Config
	session *game.Session
	round   int
	seed    int64 // 0 表示每局使用时钟种子

	codec     Codec
	out       Sink
	inputChan chan ClientMessage

	// 当前持有的输入状态：每个 Tick 都按最近一次输入推进
	keys    game.KeyState
	stick   game.StickState
	lastSeq int64

	tickSeq  int64
	interval time.Duration
	metrics  *RunnerMetrics

	tickerStarted bool
	stopOnce      sync.Once
	done          chan struct{}
	finished      chan struct{}
}

// NewSessionRunner 创建会话并生成第一张迷宫
func NewSessionRunner(id string, cfg game.Config, codec Codec, out Sink, tickRate int) (*SessionRunner, error) {
	if tickRate <= 0 {
		tickRate = 60
	}
	r := &SessionRunner{
		ID:        id,
		cfg:       cfg,
		seed:      cfg.Seed,
		codec:     codec,
		out:       out,
		inputChan: make(chan ClientMessage, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		interval:  time.Second / time.Duration(tickRate),
		metrics:   &RunnerMetrics{},
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
	if err := r.newRound(); err != nil {
		return nil, err
	}
	return r, nil
}

// newRound 生成新迷宫与新的玩家状态；固定种子时每局递增，保证可复现又不重复
func (r *SessionRunner) newRound() error {
	var src maze.Source
	if r.seed != 0 {
		src = maze.NewSource(r.seed + int64(r.round))
	} else {
		src = maze.NewSource(0)
	}
	s, err := game.NewSession(r.cfg, src)
	if err != nil {
		return err
	}
	r.session = s
	r.round++
	r.keys, r.stick = game.KeyState{}, game.StickState{}
	return nil
}

// OnInput 入站输入（不立即改变状态），仅记录意图，等下一次 Tick 处理
func (r *SessionRunner) OnInput(msg ClientMessage) {
	// 不阻塞：输入拥塞时丢弃，保证 Tick 准时
	select {
	case r.inputChan <- msg:
	default:
		r.metrics.IncChanFullDiscarded()
	}
}

// ProcessInputs 处理当前帧的所有输入（非阻塞 drain）
func (r *SessionRunner) ProcessInputs() {
	for {
		select {
		case msg := <-r.inputChan:
			r.applyMessage(msg)
		default:
			return
		}
	}
}

func (r *SessionRunner) applyMessage(msg ClientMessage) {
	switch msg.Type {
	case MsgInput:
		if msg.Seq != 0 && msg.Seq <= r.lastSeq {
			r.metrics.IncOldSeqIgnored()
			return
		}
		if msg.Seq != 0 {
			r.lastSeq = msg.Seq
		}
		r.keys, r.stick = msg.Keys, msg.Stick
		r.metrics.IncAccepted()
	case MsgReset:
		r.Reset()
	default:
		Log.Debugf("session %s: ignoring message type %q", r.ID, msg.Type)
	}
}

// Reset 由宿主发起的新一局：丢弃旧会话，生成新迷宫并重新下发
func (r *SessionRunner) Reset() {
	if err := r.newRound(); err != nil {
		Log.Errorf("session %s: reset failed: %v", r.ID, err)
		return
	}
	r.metrics.IncResets()
	Log.Infof("session %s: round %d started (%dx%d)", r.ID, r.round, r.cfg.Width, r.cfg.Height)
	r.SendMaze()
}

// UpdateWorld 推进一帧；逃出迷宫后会话不再改变玩家状态
func (r *SessionRunner) UpdateWorld() game.Event {
	r.tickSeq++
	ev := r.session.Tick(r.keys, r.stick)
	if ev == game.EventEscaped {
		r.metrics.IncEscapes()
		p := r.session.Player()
		Log.Infof("session %s: escaped in round %d after %d ticks at (%.2f, %.2f)",
			r.ID, r.round, r.session.Ticks(), p.X, p.Z)
	}
	return ev
}

// Broadcast 将当前状态发送给客户端
func (r *SessionRunner) Broadcast(ev game.Event) {
	msg := StateMessage{
		Type:    MsgState,
		Tick:    r.tickSeq,
		Ack:     r.lastSeq,
		Player:  r.session.Player(),
		Camera:  r.session.Camera(),
		Escaped: r.session.Escaped(),
	}
	if ev != game.EventNone {
		msg.Event = ev.String()
	}
	r.send(msg)
}

// SendMaze 下发当前迷宫
func (r *SessionRunner) SendMaze() {
	r.send(newMazeMessage(r.ID, r.round, r.session))
}

func (r *SessionRunner) send(v any) {
	b, err := r.codec.Marshal(v)
	if err != nil {
		r.metrics.IncEncodeFailures()
		Log.Errorf("session %s: encode %T: %v", r.ID, v, err)
		return
	}
	r.out.Enqueue(b)
}

// Step 执行一次完整的 Tick：处理输入 → 更新世界 → 广播结果
func (r *SessionRunner) Step() {
	start := time.Now()
	r.ProcessInputs()
	ev := r.UpdateWorld()
	r.Broadcast(ev)
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

// Stop 请求停止 Tick 循环；连接由 Tick 协程在退出时关闭
func (r *SessionRunner) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Done 在 Tick 协程退出（连接已关闭）后关闭
func (r *SessionRunner) Done() <-chan struct{} { return r.finished }

// Session 当前会话，仅供 Tick 协程或停止后读取
func (r *SessionRunner) Session() *game.Session { return r.session }

func (r *SessionRunner) Metrics() *RunnerMetrics { return r.metrics }

func (r *SessionRunner) Round() int { return r.round }
