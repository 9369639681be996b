package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueueFIFO 严格先到先得：A、B、C 依序入队，配对取 A+B，C 继续等
func TestQueueFIFO(t *testing.T) {
	q := newMatchQueue()
	require.True(t, q.enqueue("a", "A"))
	require.True(t, q.enqueue("b", "B"))
	require.True(t, q.enqueue("c", "C"))

	first, second, ok := q.takePair()
	require.True(t, ok)
	assert.Equal(t, "a", first.connID)
	assert.Equal(t, "b", second.connID)
	assert.Equal(t, 1, q.size())

	_, _, ok = q.takePair()
	assert.False(t, ok, "single waiter must not be paired")
}

// TestQueueDuplicateEnqueue 重复入队无副作用
func TestQueueDuplicateEnqueue(t *testing.T) {
	q := newMatchQueue()
	require.True(t, q.enqueue("a", "A"))
	assert.False(t, q.enqueue("a", "A again"))
	assert.Equal(t, 1, q.size())
}

// TestQueueRemove 断线移除：命中返回 true，不在队中为 no-op
func TestQueueRemove(t *testing.T) {
	q := newMatchQueue()
	q.enqueue("a", "A")
	q.enqueue("b", "B")
	q.enqueue("c", "C")

	assert.True(t, q.remove("b"))
	assert.Equal(t, 2, q.size())
	assert.False(t, q.remove("missing"))

	// 移除中间者后顺序保持
	first, second, ok := q.takePair()
	require.True(t, ok)
	assert.Equal(t, "a", first.connID)
	assert.Equal(t, "c", second.connID)
}
