package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/emu-tui/emu/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeManager struct {
	platform domain.Platform
	records  []domain.Record
	err      error
	calls    chan struct{}
}

func newFakeManager(platform domain.Platform) *fakeManager {
	return &fakeManager{platform: platform, calls: make(chan struct{}, 16)}
}

func (f *fakeManager) Platform() domain.Platform { return f.platform }
func (f *fakeManager) List(ctx context.Context) ([]domain.Record, []string, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return f.records, nil, f.err
}
func (f *fakeManager) Start(ctx context.Context, identity string) error  { return nil }
func (f *fakeManager) Stop(ctx context.Context, identity string) error   { return nil }
func (f *fakeManager) Delete(ctx context.Context, identity string) error { return nil }
func (f *fakeManager) Wipe(ctx context.Context, identity string) error   { return nil }
func (f *fakeManager) Create(ctx context.Context, spec domain.CreateSpec, progress func(domain.Progress)) (string, error) {
	return "", nil
}
func (f *fakeManager) InstallSystemImage(ctx context.Context, pkg string, progress func(domain.Progress)) error {
	return nil
}
func (f *fakeManager) StreamLogs(ctx context.Context, identity string) (<-chan string, error) {
	return nil, nil
}
func (f *fakeManager) CaptureCommand(ctx context.Context, identity string) (string, []string, error) {
	return "", nil, nil
}

func TestRunOnceCollectsBothPlatformsIndependently(t *testing.T) {
	android := newFakeManager(domain.PlatformAndroid)
	android.records = []domain.Record{{Identity: "pixel"}}
	ios := newFakeManager(domain.PlatformIOS)
	ios.err = errors.New("xcrun not found")

	s := New(android, ios, time.Second, time.Minute, time.Millisecond)
	s.Clock = clock.NewMock()

	s.runOnce(context.Background())

	select {
	case result := <-s.Out():
		require.Len(t, result.Android, 1)
		assert.NoError(t, result.AndroidErr)
		assert.Error(t, result.IOSErr, "ios failure must be reported without blocking android's result")
		assert.Nil(t, result.IOSDev)
	case <-time.After(time.Second):
		t.Fatal("expected a result on Out()")
	}
}

func TestTriggerCoalescesBurstsIntoOneRefresh(t *testing.T) {
	android := newFakeManager(domain.PlatformAndroid)
	mock := clock.NewMock()

	s := New(android, nil, time.Hour, time.Hour, 50*time.Millisecond)
	s.Clock = mock

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx, func() bool { return true }, func() bool { return false })

	// Let Run reach its select loop before firing triggers.
	time.Sleep(10 * time.Millisecond)
	s.Trigger()
	s.Trigger()
	s.Trigger()

	mock.Add(60 * time.Millisecond)

	select {
	case <-s.Out():
	case <-time.After(time.Second):
		t.Fatal("expected a coalesced refresh result")
	}

	assert.LessOrEqual(t, len(android.calls), 2, "a burst of triggers within the debounce window must coalesce")
}

func TestSuppressedSkipsTimerFiredRefreshButNotExplicitTrigger(t *testing.T) {
	android := newFakeManager(domain.PlatformAndroid)
	mock := clock.NewMock()

	s := New(android, nil, 10*time.Millisecond, time.Hour, time.Millisecond)
	s.Clock = mock

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx, func() bool { return true }, func() bool { return true })

	time.Sleep(10 * time.Millisecond)
	mock.Add(20 * time.Millisecond)

	select {
	case <-s.Out():
		t.Fatal("a suppressed periodic tick must not produce a refresh")
	case <-time.After(100 * time.Millisecond):
	}

	s.Trigger()
	mock.Add(5 * time.Millisecond)

	select {
	case <-s.Out():
	case <-time.After(time.Second):
		t.Fatal("an explicit Trigger() must still refresh while suppressed")
	}
}

func TestIntervalPicksFastWhenFocused(t *testing.T) {
	s := New(nil, nil, time.Second, time.Minute, time.Millisecond)
	assert.Equal(t, time.Second, s.interval(true))
	assert.Equal(t, time.Minute, s.interval(false))
}
