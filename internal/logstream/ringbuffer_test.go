package logstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestNewRingBuffer(t *testing.T) {
	t.Run("creates buffer with specified size", func(t *testing.T) {
		rb := NewRingBuffer(50)
		require.NotNil(t, rb)
		assert.Equal(t, 0, rb.Count())
	})

	t.Run("uses default size for zero", func(t *testing.T) {
		rb := NewRingBuffer(0)
		for i := 0; i < domain.MaxLogLinesPerDevice+10; i++ {
			rb.Push(domain.LogLine{Raw: "line"})
		}
		assert.Equal(t, domain.MaxLogLinesPerDevice, rb.Count())
	})

	t.Run("uses default size for negative", func(t *testing.T) {
		rb := NewRingBuffer(-5)
		assert.Equal(t, 0, rb.Count())
	})
}

func TestRingBufferPushAndOverflow(t *testing.T) {
	rb := NewRingBuffer(3)

	rb.Push(domain.LogLine{Raw: "1"})
	rb.Push(domain.LogLine{Raw: "2"})
	rb.Push(domain.LogLine{Raw: "3"})
	assert.Equal(t, 3, rb.Count())
	assert.Equal(t, uint64(0), rb.Dropped())

	rb.Push(domain.LogLine{Raw: "4"})
	assert.Equal(t, 3, rb.Count())
	assert.Equal(t, uint64(1), rb.Dropped(), "overflow must drop the oldest line and count it")

	all := rb.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2", "3", "4"}, rawLines(all))
}

func TestRingBufferGetLast(t *testing.T) {
	rb := NewRingBuffer(5)
	for _, s := range []string{"a", "b", "c"} {
		rb.Push(domain.LogLine{Raw: s})
	}

	last2 := rb.GetLast(2)
	assert.Equal(t, []string{"b", "c"}, rawLines(last2))

	all := rb.GetLast(100)
	assert.Equal(t, []string{"a", "b", "c"}, rawLines(all))
}

func TestRingBufferClear(t *testing.T) {
	rb := NewRingBuffer(3)
	rb.Push(domain.LogLine{Raw: "1"})
	rb.Clear()
	assert.Equal(t, 0, rb.Count())
}

func TestRingBufferCountByLevel(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Push(domain.LogLine{Level: domain.LogLevelError})
	rb.Push(domain.LogLine{Level: domain.LogLevelError})
	rb.Push(domain.LogLine{Level: domain.LogLevelInfo})

	counts := rb.CountByLevel()
	assert.Equal(t, 2, counts[domain.LogLevelError])
	assert.Equal(t, 1, counts[domain.LogLevelInfo])
}

func rawLines(lines []domain.LogLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Raw
	}
	return out
}
