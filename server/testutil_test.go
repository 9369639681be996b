package server

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// emittedEvent 记录一次定向投递，供断言出站行为
type emittedEvent struct {
	ConnID string
	Event  string
	Data   any
}

// fakeBroadcaster 测试替身：收集全部出站事件
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (f *fakeBroadcaster) Send(connID, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{ConnID: connID, Event: event, Data: data})
}

func (f *fakeBroadcaster) all() []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emittedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// byEvent 按事件名过滤
func (f *fakeBroadcaster) byEvent(event string) []emittedEvent {
	var out []emittedEvent
	for _, e := range f.all() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// forConn 按连接过滤
func (f *fakeBroadcaster) forConn(connID, event string) []emittedEvent {
	var out []emittedEvent
	for _, e := range f.all() {
		if e.ConnID == connID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeBroadcaster) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

func testConfig() Config {
	return Config{
		MapWidth:            20,
		MapHeight:           15,
		WinningScore:        500,
		DifficultyThreshold: 200,
		GameDuration:        60,
	}
}

// newTestHub 构造带固定随机种子与替身广播器的 Hub
func newTestHub(t *testing.T) (*Hub, *fakeBroadcaster) {
	t.Helper()
	h := NewHub(testConfig(), NewRegistry(), nil, &Metrics{})
	h.rng = rand.New(rand.NewSource(1))
	bc := &fakeBroadcaster{}
	h.SetBroadcaster(bc)
	return h, bc
}

// startTwoPlayerRoom 直接走匹配路径开出一间双人房（c1 先到）
func startTwoPlayerRoom(t *testing.T, h *Hub) *Room {
	t.Helper()
	h.handleJoin("c1", "Alice")
	h.handleJoin("c2", "Bob")
	rooms := h.registry.snapshot()
	require.Len(t, rooms, 1)
	return rooms[0]
}
