package server

import (
	"mazerunner/game"
	"mazerunner/maze"
)

// 入站消息类型
const (
	MsgInput = "input" // 覆盖当前持有的按键/摇杆状态
	MsgReset = "reset" // 丢弃当前会话，生成新迷宫重新开始
)

// 出站消息类型
const (
	MsgMaze  = "maze"
	MsgState = "state"
)

// ClientMessage 客户端输入：只携带已归一化的设备信号，设备采集不在服务端
// 示例：{"type":"input","seq":3,"keys":{"forward":true},"stick":{"active":false}}
type ClientMessage struct {
	Type  string          `json:"type" msgpack:"type" jsonschema:"required,enum=input,enum=reset"`
	Seq   int64           `json:"seq,omitempty" msgpack:"seq,omitempty"` // 客户端本地序列号，用于丢弃乱序的旧输入
	Keys  game.KeyState   `json:"keys" msgpack:"keys"`
	Stick game.StickState `json:"stick" msgpack:"stick"`
}

// GridPoint 网格坐标（线协议用小写字段）
type GridPoint struct {
	X int `json:"x" msgpack:"x"`
	Z int `json:"z" msgpack:"z"`
}

func gridPoint(p maze.Point) GridPoint { return GridPoint{X: p.X, Z: p.Z} }

// MazeMessage 会话开始（或重置）时发送一次的只读迷宫
type MazeMessage struct {
	Type       string     `json:"type" msgpack:"type" jsonschema:"required,enum=maze"`
	Session    string     `json:"session" msgpack:"session"`
	Round      int        `json:"round" msgpack:"round"` // 第几局，重置后递增
	Width      int        `json:"width" msgpack:"width"`
	Height     int        `json:"height" msgpack:"height"`
	Rows       []string   `json:"rows" msgpack:"rows"` // '#' 墙，'.' 通路；rows[z][x]
	Entry      GridPoint  `json:"entry" msgpack:"entry"`
	Exit       GridPoint  `json:"exit" msgpack:"exit"`
	ExitCenter [2]float64 `json:"exitCenter" msgpack:"exitCenter"`
}

// StateMessage 每个 Tick 广播的玩家位姿与相机
type StateMessage struct {
	Type    string           `json:"type" msgpack:"type" jsonschema:"required,enum=state"`
	Tick    int64            `json:"tick" msgpack:"tick"`
	Ack     int64            `json:"ack" msgpack:"ack"` // 最近一次已应用的输入序列号
	Player  game.PlayerState `json:"player" msgpack:"player"`
	Camera  game.View        `json:"camera" msgpack:"camera"`
	Event   string           `json:"event,omitempty" msgpack:"event,omitempty" jsonschema:"enum=escaped"`
	Escaped bool             `json:"escaped" msgpack:"escaped"`
}

func newMazeMessage(id string, round int, s *game.Session) MazeMessage {
	g := s.Grid()
	ex, ez := s.ExitCenter()
	return MazeMessage{
		Type:       MsgMaze,
		Session:    id,
		Round:      round,
		Width:      g.Width(),
		Height:     g.Height(),
		Rows:       g.Rows(),
		Entry:      gridPoint(g.Entry()),
		Exit:       gridPoint(g.Exit()),
		ExitCenter: [2]float64{ex, ez},
	}
}
