package appstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestApplyAndroidRefreshMergesAndReportsTransitions(t *testing.T) {
	s := New()
	now := time.Now()

	first := s.ApplyAndroidRefresh([]domain.Record{{Identity: "pixel", Status: domain.Stopped()}}, now)
	assert.Empty(t, first)
	require.Len(t, s.AndroidDevices, 1)

	transitions := s.ApplyAndroidRefresh([]domain.Record{{Identity: "pixel", Status: domain.Running()}}, now.Add(time.Second))
	require.Len(t, transitions, 1)
	assert.Equal(t, domain.StatusStopped, transitions[0].From)
	assert.Equal(t, domain.StatusRunning, transitions[0].To)
}

func TestFocusedDevicesFollowsFocus(t *testing.T) {
	s := New()
	s.AndroidDevices = []domain.Record{{Identity: "pixel"}}
	s.IOSDevices = []domain.Record{{Identity: "AAAA"}}

	assert.Equal(t, "pixel", s.FocusedDevices()[0].Identity)
	s.ToggleFocus()
	assert.Equal(t, "AAAA", s.FocusedDevices()[0].Identity)
}

func TestSelectedRecordOutOfBoundsIsNotOK(t *testing.T) {
	s := New()
	_, ok := s.SelectedRecord()
	assert.False(t, ok)
}

func TestMoveSelectionClampsToBounds(t *testing.T) {
	s := New()
	s.AndroidDevices = []domain.Record{{Identity: "a"}, {Identity: "b"}, {Identity: "c"}}

	s.MoveSelection(-5)
	assert.Equal(t, 0, s.Selected[PanelAndroid])

	s.MoveSelection(100)
	assert.Equal(t, 2, s.Selected[PanelAndroid])
}

func TestNextOpIDIsMonotonic(t *testing.T) {
	s := New()
	a := s.NextOpID()
	b := s.NextOpID()
	assert.Less(t, a, b)
}
