package server

import (
	"sync"
	"time"
)

// queueEntry 匹配队列条目
type queueEntry struct {
	connID   string
	name     string
	joinedAt time.Time
}

// matchQueue 先到先得的匹配队列：严格按到达顺序取最早的两人配对，
// 不做任何优先级或水平匹配。
// 互斥锁仅为 /metrics 读取队长，入队出队都发生在 Hub 事件循环
type matchQueue struct {
	mu      sync.Mutex
	entries []queueEntry
}

func newMatchQueue() *matchQueue {
	return &matchQueue{}
}

// enqueue 入队；已在队中则返回 false（无副作用）
func (q *matchQueue) enqueue(connID, name string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.connID == connID {
			return false
		}
	}
	q.entries = append(q.entries, queueEntry{connID: connID, name: name, joinedAt: time.Now()})
	return true
}

// remove 按连接 ID 移除（断线/主动离开），不在队中则为 no-op
func (q *matchQueue) remove(connID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.entries {
		if e.connID == connID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// takePair 取出等待最久的两人；不足两人返回 false
func (q *matchQueue) takePair() (queueEntry, queueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) < 2 {
		return queueEntry{}, queueEntry{}, false
	}
	a, b := q.entries[0], q.entries[1]
	q.entries = q.entries[2:]
	return a, b, true
}

func (q *matchQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// waiting 返回队列内容快照（仅用于周期性状态日志）
func (q *matchQueue) waiting() []queueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]queueEntry, len(q.entries))
	copy(out, q.entries)
	return out
}
