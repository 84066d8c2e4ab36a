package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestPushAssignsIncreasingIDs(t *testing.T) {
	c := New()
	now := time.Now()

	a := c.Push(domain.NotifyInfo, "first", now, time.Second)
	b := c.Push(domain.NotifyInfo, "second", now, time.Second)

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)
}

func TestPushErrorsArePersistent(t *testing.T) {
	c := New()
	n := c.Push(domain.NotifyError, "boom", time.Now(), time.Second)
	assert.True(t, n.Persistent(), "errors ignore the ttl and never auto-dismiss")
}

func TestPruneRemovesExpiredNonPersistent(t *testing.T) {
	c := New()
	now := time.Now()
	c.Push(domain.NotifySuccess, "ok", now, time.Second)
	c.Push(domain.NotifyError, "bad", now, time.Second)

	c.Prune(now.Add(2 * time.Second))

	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, domain.NotifyError, all[0].Kind)
}

func TestPushEvictsOldestDismissibleWhenFull(t *testing.T) {
	c := New()
	now := time.Now()

	for i := 0; i < domain.MaxNotifications; i++ {
		c.Push(domain.NotifyInfo, "msg", now, time.Hour)
	}
	require.Len(t, c.All(), domain.MaxNotifications)

	c.Push(domain.NotifyInfo, "newest", now, time.Hour)

	all := c.All()
	require.Len(t, all, domain.MaxNotifications)
	assert.Equal(t, "newest", all[len(all)-1].Message)
}

func TestPushEvictsOldestOverallWhenAllPersistent(t *testing.T) {
	c := New()
	now := time.Now()

	for i := 0; i < domain.MaxNotifications; i++ {
		c.Push(domain.NotifyError, "err", now, 0)
	}
	first := c.All()[0]

	c.Push(domain.NotifyError, "newest error", now, 0)

	all := c.All()
	require.Len(t, all, domain.MaxNotifications)
	for _, n := range all {
		assert.NotEqual(t, first.ID, n.ID, "the oldest persistent entry must still be evicted to keep the queue bounded")
	}
}

func TestDismissRemovesByID(t *testing.T) {
	c := New()
	n := c.Push(domain.NotifyError, "bad", time.Now(), 0)
	c.Dismiss(n.ID)
	assert.Empty(t, c.All())
}
