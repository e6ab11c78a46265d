package server

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"mazerunner/game"
)

// SessionManager 管理所有会话的生命周期，以及新会话使用的默认配置
type SessionManager struct {
	mu       sync.RWMutex
	runners  map[string]*SessionRunner
	defaults game.Config

	tickRate int
	codec    Codec
	nextID   atomic.Int64
}

// NewSessionManager 按服务端配置创建管理器
func NewSessionManager(cfg Config) (*SessionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := CodecByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	return &SessionManager{
		runners:  make(map[string]*SessionRunner),
		defaults: cfg.Game,
		tickRate: cfg.TickRate,
		codec:    codec,
	}, nil
}

// Defaults 返回新会话默认配置的副本
func (m *SessionManager) Defaults() game.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaults
}

// UpdateDefaults 在副本上修改并校验，通过后才生效；已运行的会话不受影响
func (m *SessionManager) UpdateDefaults(fn func(*game.Config)) (game.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.defaults
	fn(&next)
	if err := next.Validate(); err != nil {
		return m.defaults, err
	}
	m.defaults = next
	return next, nil
}

// Open 为一个连接创建会话；seed 非 0 时覆盖默认种子
func (m *SessionManager) Open(out Sink, codec Codec, seed int64) (*SessionRunner, error) {
	if codec == nil {
		codec = m.codec
	}
	cfg := m.Defaults()
	if seed != 0 {
		cfg.Seed = seed
	}
	id := fmt.Sprintf("s-%d", m.nextID.Add(1))
	r, err := NewSessionRunner(id, cfg, codec, out, m.tickRate)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	m.mu.Lock()
	m.runners[id] = r
	m.mu.Unlock()
	Log.Infof("session %s opened: %dx%d seed=%d codec=%s", id, cfg.Width, cfg.Height, cfg.Seed, codec.Name())
	return r, nil
}

// Close 停止会话并从注册表移除
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	r, ok := m.runners[id]
	delete(m.runners, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	r.Stop()
	Log.Infof("session %s closed", id)
}

func (m *SessionManager) Get(id string) (*SessionRunner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runners[id]
	return r, ok
}

// IDs 返回当前会话 ID（排序后）
func (m *SessionManager) IDs() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.runners))
	for id := range m.runners {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Shutdown 停止所有会话
func (m *SessionManager) Shutdown() {
	for _, id := range m.IDs() {
		m.Close(id)
	}
}
