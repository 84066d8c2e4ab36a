package devicemgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestObserveDetectsStatusChange(t *testing.T) {
	old := []domain.Record{{Identity: "pixel", Status: domain.Stopped()}}
	newList := []domain.Record{{Identity: "pixel", Status: domain.Running()}}

	transitions := (Tracker{}).Observe(old, newList)

	require.Len(t, transitions, 1)
	assert.Equal(t, domain.StatusStopped, transitions[0].From)
	assert.Equal(t, domain.StatusRunning, transitions[0].To)
}

func TestObserveIgnoresUnchangedStatus(t *testing.T) {
	old := []domain.Record{{Identity: "pixel", Status: domain.Running()}}
	newList := []domain.Record{{Identity: "pixel", Status: domain.Running()}}

	assert.Empty(t, (Tracker{}).Observe(old, newList))
}

func TestObserveIgnoresNewlyAppearedDevice(t *testing.T) {
	newList := []domain.Record{{Identity: "pixel", Status: domain.Running()}}
	assert.Empty(t, (Tracker{}).Observe(nil, newList))
}

func TestEligibleForOpPhysicalDeviceRejectsLifecycleCreation(t *testing.T) {
	r := domain.Record{IsPhysical: true, Status: domain.Stopped()}
	assert.False(t, EligibleForOp(r, domain.OpCreate))
	assert.False(t, EligibleForOp(r, domain.OpDelete))
	assert.False(t, EligibleForOp(r, domain.OpWipe))
	assert.True(t, EligibleForOp(r, domain.OpStart), "a physical device may still be started/stopped")
}

func TestEligibleForOpStateMachine(t *testing.T) {
	cases := []struct {
		name   string
		status domain.StatusKind
		op     domain.OpKind
		want   bool
	}{
		{"start stopped", domain.StatusStopped, domain.OpStart, true},
		{"start running", domain.StatusRunning, domain.OpStart, false},
		{"stop running", domain.StatusRunning, domain.OpStop, true},
		{"stop stopped", domain.StatusStopped, domain.OpStop, false},
		{"delete running", domain.StatusRunning, domain.OpDelete, false},
		{"delete stopped", domain.StatusStopped, domain.OpDelete, true},
		{"wipe starting", domain.StatusStarting, domain.OpWipe, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := domain.Record{Status: domain.Status{Kind: tc.status}}
			assert.Equal(t, tc.want, EligibleForOp(r, tc.op))
		})
	}
}
