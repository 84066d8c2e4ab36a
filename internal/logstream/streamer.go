package logstream

import (
	"context"
	"sync"
	"time"

	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
)

// Line is pushed to a Streamer's output channel for every classified log
// line read from a device, letting the UI task turn it into a tea.Msg
// without the streaming goroutine knowing about bubbletea (§5: only the
// EventLoop touches shared state).
type Line struct {
	domain.LogLine
}

// Streamer owns the per-device ring buffers and the goroutines reading from
// each device's Manager.StreamLogs channel.
type Streamer struct {
	mu      sync.Mutex
	buffers map[string]*RingBuffer
	cancels map[string]context.CancelFunc
	out     chan Line
}

// New returns a Streamer whose classified lines are delivered on the
// returned channel (buffered, so a slow consumer drops nothing at this
// layer; the per-device RingBuffer is where overflow drop happens).
func New() *Streamer {
	return &Streamer{
		buffers: make(map[string]*RingBuffer),
		cancels: make(map[string]context.CancelFunc),
		out:     make(chan Line, 1024),
	}
}

// Out returns the channel of classified lines across all subscribed devices.
func (s *Streamer) Out() <-chan Line { return s.out }

// Subscribe starts streaming identity's logs through mgr, classifying each
// line and buffering it. Calling Subscribe again for an identity already
// streaming is a no-op.
func (s *Streamer) Subscribe(ctx context.Context, mgr devicemgr.Manager, identity string) error {
	s.mu.Lock()
	if _, exists := s.cancels[identity]; exists {
		s.mu.Unlock()
		return nil
	}
	streamCtx, cancel := context.WithCancel(ctx)
	s.cancels[identity] = cancel
	if _, ok := s.buffers[identity]; !ok {
		s.buffers[identity] = NewRingBuffer(domain.MaxLogLinesPerDevice)
	}
	buf := s.buffers[identity]
	s.mu.Unlock()

	lines, err := mgr.StreamLogs(streamCtx, identity)
	if err != nil {
		s.mu.Lock()
		delete(s.cancels, identity)
		s.mu.Unlock()
		cancel()
		return err
	}

	go func() {
		defer cancel()
		for raw := range lines {
			line := domain.LogLine{
				DeviceIdentity: identity,
				Timestamp:      time.Now(),
				Level:          domain.ClassifyLine(raw),
				Raw:            raw,
			}
			buf.Push(line)
			select {
			case s.out <- Line{line}:
			case <-streamCtx.Done():
				return
			}
		}
	}()
	return nil
}

// Unsubscribe stops streaming identity's logs. Its buffered lines remain
// available via Buffer until the device is forgotten entirely.
func (s *Streamer) Unsubscribe(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[identity]; ok {
		cancel()
		delete(s.cancels, identity)
	}
}

// Buffer returns identity's ring buffer, or nil if it has never streamed.
func (s *Streamer) Buffer(identity string) *RingBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffers[identity]
}

// Forget stops streaming (if active) and discards identity's buffer
// entirely.
func (s *Streamer) Forget(identity string) {
	s.Unsubscribe(identity)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, identity)
}
